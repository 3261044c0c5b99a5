// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package metadata

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/go-shiori/dom"
)

// addValue adds a value under a key, collapsing repeated keys into an
// array value.
func addValue(res map[string]any, key string, val any) {
	cur, ok := res[key]
	if !ok {
		res[key] = val
		return
	}
	if list, ok := cur.([]any); ok {
		res[key] = append(list, val)
		return
	}
	res[key] = []any{cur, val}
}

// appendList appends a value to a key that always holds an array.
func appendList(res map[string]any, key string, val any) {
	if list, ok := res[key].([]any); ok {
		res[key] = append(list, val)
		return
	}
	res[key] = []any{val}
}

// textValue flattens an attribute value that may contain markup.
func textValue(s string) string {
	n, _ := html.Parse(strings.NewReader(s))
	return strings.TrimSpace(dom.TextContent(n))
}

// relContains reports whether a whitespace separated rel attribute
// carries the given keyword.
func relContains(n *html.Node, keyword string) bool {
	for rel := range strings.FieldsSeq(strings.ToLower(dom.GetAttribute(n, "rel"))) {
		if rel == keyword {
			return true
		}
	}
	return false
}
