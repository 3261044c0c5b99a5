// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package metadata

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/go-shiori/dom"

	"codeberg.org/metasift/metasift/pkg/urls"
)

// Open Graph properties with array semantics: each bare occurrence
// starts a new structured entry, subsequent sub-properties (og:image:width,
// og:image:alt...) attach to the most recently started one.
var ogStructured = map[string]struct{}{
	"image": {},
	"video": {},
	"audio": {},
}

// extractOpenGraph collects og: properties from meta elements. Both
// property= and name= spellings occur in the wild; accept either.
func extractOpenGraph(d *Document) (map[string]any, bool) {
	res := map[string]any{}
	current := map[string]map[string]any{}

	nodes := htmlquery.Find(d.Root,
		"//meta[@content][starts-with(@property, 'og:') or starts-with(@name, 'og:')]")
	for _, n := range nodes {
		prop := dom.GetAttribute(n, "property")
		if prop == "" {
			prop = dom.GetAttribute(n, "name")
		}
		prop = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(prop)), "og:")
		content := strings.TrimSpace(dom.GetAttribute(n, "content"))
		if prop == "" || content == "" {
			continue
		}

		root, sub, nested := strings.Cut(prop, ":")
		if _, ok := ogStructured[root]; ok {
			if !nested || sub == "" {
				entry := map[string]any{"url": urls.Resolve(content, d.Base)}
				appendList(res, root, entry)
				current[root] = entry
				continue
			}
			entry := current[root]
			if entry == nil {
				// sub-property without a preceding bare property
				entry = map[string]any{}
				appendList(res, root, entry)
				current[root] = entry
			}
			switch sub {
			case "url", "secure_url":
				// og:image:url duplicates the bare og:image spelling;
				// it completes the open entry, it never starts one
				entry[sub] = urls.Resolve(content, d.Base)
			default:
				entry[strings.ReplaceAll(sub, ":", "_")] = content
			}
			continue
		}

		if prop == "locale:alternate" {
			appendList(res, "locale_alternate", content)
			continue
		}

		key := strings.ReplaceAll(prop, ":", "_")
		if key == "url" {
			content = urls.Resolve(content, d.Base)
		}
		res[key] = content
	}

	return res, len(res) > 0
}
