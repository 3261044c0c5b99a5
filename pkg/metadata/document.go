// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package metadata

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"

	"codeberg.org/metasift/metasift/pkg/urls"
)

// Document is an HTML document parsed once per extraction call. The
// base URL, when present, is shared by every extractor running against
// the document. A Document is read-only once built.
type Document struct {
	Root *html.Node
	Base *url.URL
}

var rxCharset = regexp.MustCompile(`(?i)charset\s*=\s*["']?\s*([-_a-zA-Z0-9]+)`)

// Parse builds a Document from raw HTML. The parser is tolerant;
// unclosed tags, unknown entities and stray bytes all produce a best
// effort tree instead of an error. Script and style contents are kept
// verbatim so embedded JSON-LD survives intact.
func Parse(src string, baseURL string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(decodeCharset(src)))
	if err != nil {
		// html.Parse never fails on an in-memory reader; keep the path
		// for safety.
		return nil, invalidInput("cannot parse HTML: " + err.Error())
	}
	return &Document{Root: root, Base: urls.ParseBase(baseURL)}, nil
}

// decodeCharset re-decodes the input when it is not valid UTF-8 and a
// charset declaration names a known encoding.
func decodeCharset(src string) string {
	if utf8.ValidString(src) {
		return src
	}
	m := rxCharset.FindStringSubmatch(src)
	if m == nil {
		return src
	}
	e, err := htmlindex.Get(m[1])
	if err != nil {
		return src
	}
	decoded, err := e.NewDecoder().String(src)
	if err != nil {
		return src
	}
	return decoded
}
