// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package jsonld collects JSON-LD blocks embedded in HTML script
// elements.
package jsonld

import (
	"encoding/json"
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract returns every successfully decoded ld+json block in document
// order. A block whose body is not valid JSON is dropped silently: one
// broken block never hides the others, and zero decodable blocks is a
// valid empty result, not an error. A block holding a top-level array
// is flattened into the result.
//
// String values are HTML-entity unescaped, per the restrictions on
// JSON-LD script element contents.
func Extract(root *html.Node) []any {
	res := []any{}

	for n := range iterNodes(root) {
		if n.DataAtom != atom.Script || n.FirstChild == nil {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(getAttr(n, "type")), "application/ld+json") {
			continue
		}

		var v any
		if err := json.Unmarshal([]byte(scriptBody(n)), &v); err != nil {
			continue
		}
		switch t := unescapeValues(v).(type) {
		case []any:
			res = append(res, t...)
		default:
			res = append(res, t)
		}
	}

	return res
}

// scriptBody concatenates the text children of a script element.
func scriptBody(n *html.Node) string {
	buf := new(strings.Builder)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}

func unescapeValues(val any) any {
	switch t := val.(type) {
	case map[string]any:
		for k, v := range t {
			t[k] = unescapeValues(v)
		}
	case []any:
		for i, v := range t {
			t[i] = unescapeValues(v)
		}
	case string:
		return html.UnescapeString(t)
	}
	return val
}

func iterNodes(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n != nil {
			if !yield(n) {
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				iterNodes(c)(yield)
			}
		}
	}
}

func getAttr(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if name == attr.Key {
			return attr.Val
		}
	}
	return ""
}
