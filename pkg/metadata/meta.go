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

// metaKey normalizes a meta tag name into a result key
// (google-site-verification becomes google_site_verification).
func metaKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range []string{"-", ".", ":"} {
		name = strings.ReplaceAll(name, c, "_")
	}
	return name
}

// extractMeta collects the document title, charset, canonical link and
// every meta name/content pair. The last occurrence of a name wins.
// Names claimed by the dedicated extractors (og:, twitter:, DC.) are
// left to them.
func extractMeta(d *Document) (map[string]any, bool) {
	res := map[string]any{}

	if n := htmlquery.FindOne(d.Root, "//title"); n != nil {
		if title := strings.TrimSpace(dom.TextContent(n)); title != "" {
			res["title"] = title
		}
	}
	if n := htmlquery.FindOne(d.Root, "//meta[@charset]"); n != nil {
		if c := strings.TrimSpace(dom.GetAttribute(n, "charset")); c != "" {
			res["charset"] = strings.ToLower(c)
		}
	}

	for _, n := range htmlquery.Find(d.Root, "//meta[@name][@content]") {
		name := metaKey(dom.GetAttribute(n, "name"))
		if name == "" || isClaimedMeta(name) {
			continue
		}
		value := textValue(dom.GetAttribute(n, "content"))
		if value == "" {
			continue
		}
		if name == "keywords" {
			res[name] = splitKeywords(value)
			continue
		}
		res[name] = value
	}

	for _, n := range htmlquery.Find(d.Root, "//link[@rel][@href]") {
		if !relContains(n, "canonical") {
			continue
		}
		if href := strings.TrimSpace(dom.GetAttribute(n, "href")); href != "" {
			res["canonical"] = urls.Resolve(href, d.Base)
		}
	}

	return res, len(res) > 0
}

func isClaimedMeta(key string) bool {
	for _, prefix := range []string{"og_", "twitter_", "dc_", "dcterms_"} {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func splitKeywords(s string) []any {
	res := []any{}
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			res = append(res, k)
		}
	}
	return res
}
