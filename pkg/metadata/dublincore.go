// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package metadata

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/go-shiori/dom"
)

var dcPrefixes = []string{"dc.", "dcterms."}

// extractDublinCore collects DC.* and DCTERMS.* meta elements into a
// flat object. Repeated names collapse into an array value.
func extractDublinCore(d *Document) (map[string]any, bool) {
	res := map[string]any{}

	for _, n := range htmlquery.Find(d.Root, "//meta[@name][@content]") {
		name := strings.ToLower(strings.TrimSpace(dom.GetAttribute(n, "name")))
		key := ""
		for _, prefix := range dcPrefixes {
			if strings.HasPrefix(name, prefix) {
				key = name[len(prefix):]
				break
			}
		}
		if key == "" {
			continue
		}
		value := textValue(dom.GetAttribute(n, "content"))
		if value == "" {
			continue
		}
		addValue(res, key, value)
	}

	return res, len(res) > 0
}
