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

// extractRelLinks groups link and anchor relations by keyword. A rel
// attribute may list several keywords; each one contributes an entry.
// Values are lists of resolved hrefs in document order.
func extractRelLinks(d *Document) (map[string]any, bool) {
	res := map[string]any{}

	for _, n := range htmlquery.Find(d.Root, "//*[self::link or self::a][@rel][@href]") {
		href := strings.TrimSpace(dom.GetAttribute(n, "href"))
		if href == "" {
			continue
		}
		href = urls.Resolve(href, d.Base)
		for rel := range strings.FieldsSeq(strings.ToLower(dom.GetAttribute(n, "rel"))) {
			appendList(res, rel, href)
		}
	}

	return res, len(res) > 0
}

// extractManifestLink finds the Web App Manifest declaration. Only the
// URL is discovered here; fetching and parsing the manifest itself is
// the caller's business (see the manifest package).
func extractManifestLink(d *Document) (map[string]any, bool) {
	for _, n := range htmlquery.Find(d.Root, "//link[@rel][@href]") {
		if !relContains(n, "manifest") {
			continue
		}
		href := strings.TrimSpace(dom.GetAttribute(n, "href"))
		if href == "" {
			continue
		}
		return map[string]any{"url": urls.Resolve(href, d.Base)}, true
	}
	return nil, false
}

// extractOembed finds oEmbed discovery links. The JSON and XML variants
// are recorded under distinct keys; the first link of each kind wins.
func extractOembed(d *Document) (map[string]any, bool) {
	res := map[string]any{}

	for _, n := range htmlquery.Find(d.Root, "//link[@rel][@href][@type]") {
		if !relContains(n, "alternate") {
			continue
		}
		href := strings.TrimSpace(dom.GetAttribute(n, "href"))
		if href == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(dom.GetAttribute(n, "type"))) {
		case "application/json+oembed":
			if _, ok := res["json"]; !ok {
				res["json"] = urls.Resolve(href, d.Base)
			}
		case "text/xml+oembed", "application/xml+oembed":
			if _, ok := res["xml"]; !ok {
				res["xml"] = urls.Resolve(href, d.Base)
			}
		}
	}

	return res, len(res) > 0
}
