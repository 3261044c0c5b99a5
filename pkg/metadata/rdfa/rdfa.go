// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package rdfa extracts RDFa items (vocab, typeof, property, resource)
// from HTML attributes.
package rdfa

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"codeberg.org/metasift/metasift/pkg/urls"
)

// Extract returns RDFa items in document order. The vocab attribute is
// inherited down the tree unless overridden. Each typeof element starts
// a new item; a property on an element with no typeof ancestor is
// dropped. A typeof element carrying a property becomes a structured
// value of the enclosing item instead of a top-level one.
func Extract(root *html.Node, base *url.URL) []map[string]any {
	p := &parser{base: base, items: []map[string]any{}}
	p.walk(root, "", nil)
	return p.items
}

type parser struct {
	base  *url.URL
	items []map[string]any
}

func (p *parser) walk(n *html.Node, vocab string, current map[string]any) {
	if n.Type == html.ElementNode {
		if v := strings.TrimSpace(getAttr(n, "vocab")); v != "" {
			vocab = v
		}

		typeofVal, hasTypeof := lookupAttr(n, "typeof")
		prop := strings.TrimSpace(getAttr(n, "property"))

		if hasTypeof {
			item := p.newItem(n, vocab, typeofVal)
			if prop != "" && current != nil {
				for name := range strings.FieldsSeq(prop) {
					addValue(current, name, item)
				}
			} else {
				p.items = append(p.items, item)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				p.walk(c, vocab, item)
			}
			return
		}

		if prop != "" && current != nil {
			value := p.propertyValue(n)
			for name := range strings.FieldsSeq(prop) {
				addValue(current, name, value)
			}
			// the element's subtree supplied the value; do not collect
			// it twice
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, vocab, current)
	}
}

func (p *parser) newItem(n *html.Node, vocab, typeofVal string) map[string]any {
	item := map[string]any{}
	if vocab != "" {
		item["@context"] = strings.TrimSuffix(vocab, "/")
	}
	for t := range strings.FieldsSeq(typeofVal) {
		addValue(item, "@type", t)
	}
	if r := strings.TrimSpace(getAttr(n, "resource")); r != "" {
		item["@id"] = urls.Resolve(r, p.base)
	}
	return item
}

func (p *parser) propertyValue(n *html.Node) string {
	if v := strings.TrimSpace(getAttr(n, "content")); v != "" {
		return v
	}
	if r := strings.TrimSpace(getAttr(n, "resource")); r != "" {
		return urls.Resolve(r, p.base)
	}

	switch n.DataAtom {
	case atom.A, atom.Area, atom.Link:
		if href := strings.TrimSpace(getAttr(n, "href")); href != "" {
			return urls.Resolve(href, p.base)
		}
	case atom.Img, atom.Audio, atom.Video, atom.Iframe, atom.Embed:
		if src := strings.TrimSpace(getAttr(n, "src")); src != "" {
			return urls.Resolve(src, p.base)
		}
	case atom.Time:
		if dt := strings.TrimSpace(getAttr(n, "datetime")); dt != "" {
			return dt
		}
	}

	return textContent(n)
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
	v, _ := lookupAttr(node, name)
	return v
}

func lookupAttr(node *html.Node, name string) (string, bool) {
	for _, attr := range node.Attr {
		if name == attr.Key {
			return attr.Val, true
		}
	}
	return "", false
}
