// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package microformats extracts Microformats v2 items (h-card, h-entry,
// h-event...) from HTML class attributes.
package microformats

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"codeberg.org/metasift/metasift/pkg/urls"
)

// Extract returns every root-level microformat item grouped by root
// class: {"h-card": [...], "h-entry": [...]}. Property values appear
// under their bare name (p-name contributes "name"); repeated
// properties collapse into arrays and nested roots become structured
// values.
func Extract(root *html.Node, base *url.URL) map[string]any {
	res := map[string]any{}
	collectRoots(root, base, func(typ string, item map[string]any) {
		if list, ok := res[typ].([]any); ok {
			res[typ] = append(list, item)
			return
		}
		res[typ] = []any{item}
	})
	return res
}

// QueryType returns the root-level items of a single root class, for
// instance "h-card".
func QueryType(root *html.Node, base *url.URL, typ string) []map[string]any {
	res := []map[string]any{}
	collectRoots(root, base, func(t string, item map[string]any) {
		if t == typ {
			res = append(res, item)
		}
	})
	return res
}

func collectRoots(n *html.Node, base *url.URL, yield func(string, map[string]any)) {
	if n.Type == html.ElementNode {
		if types := rootClasses(n); len(types) > 0 {
			item := parseItem(n, base)
			for _, typ := range types {
				yield(typ, item)
			}
			// descendants belong to this item
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRoots(c, base, yield)
	}
}

// parseItem builds one item from a root element. The item records its
// primary type and every property found below it, stopping at nested
// roots which become structured values of their carrying property (or
// of "children" when they carry none).
func parseItem(n *html.Node, base *url.URL) map[string]any {
	item := map[string]any{"type": rootClasses(n)[0]}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parseProperties(c, item, base)
	}
	return item
}

func parseProperties(n *html.Node, item map[string]any, base *url.URL) {
	if n.Type != html.ElementNode {
		return
	}

	classes := strings.Fields(getAttr(n, "class"))

	if len(rootClasses(n)) > 0 {
		sub := parseItem(n, base)
		named := false
		for _, c := range classes {
			if name, ok := propertyName(c); ok {
				addValue(item, name, sub)
				named = true
			}
		}
		if !named {
			addValue(item, "children", sub)
		}
		return
	}

	recorded := false
	for _, c := range classes {
		name, ok := propertyName(c)
		if !ok {
			continue
		}
		if v := propertyValue(n, c, base); v != "" {
			addValue(item, name, v)
		}
		recorded = true
	}
	if recorded {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parseProperties(c, item, base)
	}
}

var propertyPrefixes = []string{"p-", "u-", "dt-", "e-"}

func propertyName(class string) (string, bool) {
	for _, prefix := range propertyPrefixes {
		if rest, ok := strings.CutPrefix(class, prefix); ok && rest != "" {
			return rest, true
		}
	}
	return "", false
}

func rootClasses(n *html.Node) []string {
	res := []string{}
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if strings.HasPrefix(c, "h-") && len(c) > 2 {
			res = append(res, c)
		}
	}
	return res
}

func propertyValue(n *html.Node, class string, base *url.URL) string {
	switch {
	case strings.HasPrefix(class, "u-"):
		return urlValue(n, base)
	case strings.HasPrefix(class, "dt-"):
		return datetimeValue(n)
	case strings.HasPrefix(class, "e-"):
		return innerHTML(n)
	default:
		return plainValue(n)
	}
}

func plainValue(n *html.Node) string {
	switch n.DataAtom {
	case atom.Img, atom.Area:
		if alt := getAttr(n, "alt"); alt != "" {
			return alt
		}
	case atom.Abbr:
		if title := getAttr(n, "title"); title != "" {
			return title
		}
	case atom.Data, atom.Input:
		if v := getAttr(n, "value"); v != "" {
			return v
		}
	}
	return textContent(n)
}

func urlValue(n *html.Node, base *url.URL) string {
	var ref string
	switch n.DataAtom {
	case atom.A, atom.Area, atom.Link:
		ref = getAttr(n, "href")
	case atom.Img, atom.Audio, atom.Video, atom.Source, atom.Iframe:
		ref = getAttr(n, "src")
	case atom.Object:
		ref = getAttr(n, "data")
	default:
		ref = textContent(n)
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	return urls.Resolve(ref, base)
}

func datetimeValue(n *html.Node) string {
	switch n.DataAtom {
	case atom.Time, atom.Ins, atom.Del:
		if dt := getAttr(n, "datetime"); dt != "" {
			return strings.TrimSpace(dt)
		}
	case atom.Abbr:
		if title := getAttr(n, "title"); title != "" {
			return strings.TrimSpace(title)
		}
	}
	return textContent(n)
}

// innerHTML renders the markup below an element, for e-* properties.
func innerHTML(n *html.Node) string {
	buf := new(strings.Builder)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(buf, c)
	}
	return strings.TrimSpace(buf.String())
}

func textContent(n *html.Node) string {
	buf := []string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf = append(buf, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(buf, " ")
}

func addValue(item map[string]any, name string, val any) {
	cur, ok := item[name]
	if !ok {
		item[name] = val
		return
	}
	if list, ok := cur.([]any); ok {
		item[name] = append(list, val)
		return
	}
	item[name] = []any{cur, val}
}

func getAttr(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if name == attr.Key {
			return attr.Val
		}
	}
	return ""
}
