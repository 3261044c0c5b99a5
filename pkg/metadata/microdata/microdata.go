// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package microdata extracts HTML microdata (itemscope, itemtype,
// itemprop) into plain JSON objects.
package microdata

import (
	"iter"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"codeberg.org/metasift/metasift/pkg/urls"
)

type parser struct {
	root            *html.Node
	base            *url.URL
	identifiedNodes map[string]*html.Node
}

// Extract walks the document and returns every top-level itemscope
// item, in document order. A top-level item is an itemscope element
// without an itemprop of its own; nested itemscopes become nested
// objects and stop the outer property walk. Repeated properties
// collapse into arrays.
func Extract(root *html.Node, base *url.URL) []map[string]any {
	p := &parser{
		root:            root,
		base:            base,
		identifiedNodes: map[string]*html.Node{},
	}
	return p.parse()
}

func (p *parser) parse() []map[string]any {
	res := []map[string]any{}
	topLevel := []*html.Node{}

	for n := range iterNodes(p.root) {
		if hasAttr(n, "itemscope") && !hasAttr(n, "itemprop") {
			topLevel = append(topLevel, n)
		}
		if id, _ := getAttr(n, "id"); id != "" {
			p.identifiedNodes[id] = n
		}
	}

	for _, n := range topLevel {
		item := map[string]any{}
		p.readItemAttr(item, n)
		p.readItemNode(item, n, true)
		if len(item) > 0 {
			res = append(res, item)
		}
	}

	return res
}

func (p *parser) readItemNode(item map[string]any, n *html.Node, topLevel bool) {
	itemprops, hasProp := getAttr(n, "itemprop")
	_, hasScope := getAttr(n, "itemscope")

	switch {
	case hasScope && hasProp:
		sub := map[string]any{}
		p.readItemAttr(sub, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.readItemNode(sub, c, false)
		}
		if sub["@context"] == item["@context"] {
			delete(sub, "@context")
		}
		for prop := range strings.FieldsSeq(itemprops) {
			addToItem(item, prop, sub)
		}
		return
	case !hasScope && hasProp:
		if s := p.propertyValue(n); s != "" {
			for name := range strings.FieldsSeq(itemprops) {
				addToItem(item, name, s)
			}
		}
		return
	case hasScope && !topLevel:
		// a nested top-level scope owns its own descendants
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.readItemNode(item, c, false)
	}
}

func (p *parser) readItemAttr(item map[string]any, node *html.Node) {
	if s, ok := getAttr(node, "itemtype"); ok {
		for itemtype := range strings.FieldsSeq(s) {
			addToItem(item, "@type", itemtype)
		}
	}

	if s, ok := getAttr(node, "itemid"); ok && s != "" {
		if strings.HasPrefix(s, "#") {
			item["@id"] = strings.TrimLeft(s, "#")
		} else {
			item["@id"] = urls.Resolve(s, p.base)
		}
	}

	if s, ok := getAttr(node, "itemref"); ok {
		for itemref := range strings.FieldsSeq(s) {
			if n, ok := p.identifiedNodes[itemref]; ok {
				p.readItemNode(item, n, false)
			}
		}
	}

	// split a URL itemtype into context and type
	if t, ok := item["@type"].(string); ok {
		if u, err := url.Parse(t); err == nil && u.IsAbs() && u.Host != "" {
			item["@context"] = u.Scheme + "://" + u.Host
			item["@type"] = strings.Trim(u.Path, "/")
		}
	}
}

func (p *parser) propertyValue(node *html.Node) string {
	var value string

	switch node.DataAtom {
	case atom.Meta:
		value, _ = getAttr(node, "content")
	case atom.Audio, atom.Embed, atom.Iframe, atom.Img, atom.Source, atom.Track, atom.Video:
		if v, ok := getAttr(node, "src"); ok {
			value = urls.Resolve(v, p.base)
		}
	case atom.A, atom.Area, atom.Link:
		if v, ok := getAttr(node, "href"); ok {
			value = urls.Resolve(v, p.base)
		}
	case atom.Data, atom.Meter:
		value, _ = getAttr(node, "value")
	case atom.Time:
		value, _ = getAttr(node, "datetime")
	default:
		// the content attribute can appear on any element
		if v, ok := getAttr(node, "content"); ok {
			value = v
			break
		}
		value = textContent(node)
	}

	return strings.TrimSpace(value)
}

// textContent returns the whitespace-normalized text of a subtree.
func textContent(node *html.Node) string {
	buf := []string{}
	for n := range iterNodes(node) {
		if n.Type == html.TextNode {
			buf = append(buf, strings.Fields(n.Data)...)
		}
	}
	return strings.Join(buf, " ")
}

func addToItem(item map[string]any, name string, val any) {
	if name == "" {
		return
	}
	if cur, ok := item[name]; ok {
		if list, ok := cur.([]any); ok {
			item[name] = append(list, val)
			return
		}
		item[name] = []any{cur, val}
		return
	}
	item[name] = val
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

func getAttr(node *html.Node, name string) (string, bool) {
	for _, attr := range node.Attr {
		if name == attr.Key {
			return attr.Val, true
		}
	}
	return "", false
}

func hasAttr(node *html.Node, name string) bool {
	_, ok := getAttr(node, name)
	return ok
}
