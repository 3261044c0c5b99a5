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

// extractTwitter collects twitter: card properties. Keys are flat:
// twitter:image:alt becomes image_alt. The last occurrence wins.
func extractTwitter(d *Document) (map[string]any, bool) {
	res := map[string]any{}

	nodes := htmlquery.Find(d.Root,
		"//meta[@content][starts-with(@name, 'twitter:') or starts-with(@property, 'twitter:')]")
	for _, n := range nodes {
		name := dom.GetAttribute(n, "name")
		if name == "" {
			name = dom.GetAttribute(n, "property")
		}
		name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "twitter:")
		content := strings.TrimSpace(dom.GetAttribute(n, "content"))
		if name == "" || content == "" {
			continue
		}

		key := strings.ReplaceAll(name, ":", "_")
		if key == "image" {
			content = urls.Resolve(content, d.Base)
		}
		res[key] = content
	}

	return res, len(res) > 0
}

// extractTwitterWithFallback fills card, title, description and image
// from Open Graph when the page has no dedicated Twitter markup for
// them.
func extractTwitterWithFallback(d *Document) (map[string]any, bool) {
	res, _ := extractTwitter(d)
	og, ok := extractOpenGraph(d)
	if !ok {
		return res, len(res) > 0
	}

	for _, key := range []string{"title", "description", "url"} {
		if _, ok := res[key]; ok {
			continue
		}
		if v, ok := og[key]; ok {
			res[key] = v
		}
	}

	if _, ok := res["image"]; !ok {
		if images, ok := og["image"].([]any); ok && len(images) > 0 {
			if entry, ok := images[0].(map[string]any); ok {
				if u, ok := entry["url"]; ok {
					res["image"] = u
				}
			}
		}
	}

	if _, ok := res["card"]; !ok && len(res) > 0 {
		res["card"] = "summary"
	}

	return res, len(res) > 0
}
