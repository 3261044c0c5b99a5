// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package metadata extracts structured metadata embedded in HTML documents
and normalizes each convention to JSON. It recognizes standard meta
tags, Open Graph, Twitter Cards, JSON-LD, Microdata, Microformats v2,
RDFa, Dublin Core, Web App Manifest links, oEmbed discovery links and
rel-* link relations.

The document is parsed once per call; every extractor walks the same
tree and relative URLs are resolved against the caller supplied base
URL. An [Extractor] records the last failing operation so that binding
layers can surface (code, message) pairs; it is not safe for concurrent
use and callers running extractions from several threads must hold one
Extractor per thread.
*/
package metadata

import (
	"bytes"
	"encoding/json"
	"strings"

	"codeberg.org/metasift/metasift/pkg/metadata/jsonld"
	"codeberg.org/metasift/metasift/pkg/metadata/manifest"
	"codeberg.org/metasift/metasift/pkg/metadata/microdata"
	"codeberg.org/metasift/metasift/pkg/metadata/microformats"
	"codeberg.org/metasift/metasift/pkg/metadata/rdfa"
	"codeberg.org/metasift/metasift/pkg/urls"
)

// Version is the library version.
const Version = "0.1.0"

// Result is the combined extraction envelope. Formats absent from the
// document keep their empty shape: an object for most formats, an array
// for jsonLd, microdata and rdfa.
type Result struct {
	Meta         map[string]any   `json:"meta"`
	OpenGraph    map[string]any   `json:"openGraph"`
	Twitter      map[string]any   `json:"twitter"`
	JSONLD       []any            `json:"jsonLd"`
	Microdata    []map[string]any `json:"microdata"`
	Microformats map[string]any   `json:"microformats"`
	RDFa         []map[string]any `json:"rdfa"`
	DublinCore   map[string]any   `json:"dublinCore"`
	Manifest     map[string]any   `json:"manifest"`
	Oembed       map[string]any   `json:"oembed"`
	RelLinks     map[string]any   `json:"relLinks"`
}

// Extract runs every extractor over an already parsed document and
// assembles the envelope. A format finding nothing never fails the
// call; its field keeps the empty shape.
func Extract(doc *Document) *Result {
	r := &Result{
		Meta:         map[string]any{},
		OpenGraph:    map[string]any{},
		Twitter:      map[string]any{},
		JSONLD:       []any{},
		Microdata:    []map[string]any{},
		Microformats: map[string]any{},
		RDFa:         []map[string]any{},
		DublinCore:   map[string]any{},
		Manifest:     map[string]any{},
		Oembed:       map[string]any{},
		RelLinks:     map[string]any{},
	}

	if v, ok := extractMeta(doc); ok {
		r.Meta = v
	}
	if v, ok := extractOpenGraph(doc); ok {
		r.OpenGraph = v
	}
	if v, ok := extractTwitter(doc); ok {
		r.Twitter = v
	}
	if v := jsonld.Extract(doc.Root); len(v) > 0 {
		r.JSONLD = v
	}
	if v := microdata.Extract(doc.Root, doc.Base); len(v) > 0 {
		r.Microdata = v
	}
	if v := microformats.Extract(doc.Root, doc.Base); len(v) > 0 {
		r.Microformats = v
	}
	if v := rdfa.Extract(doc.Root, doc.Base); len(v) > 0 {
		r.RDFa = v
	}
	if v, ok := extractDublinCore(doc); ok {
		r.DublinCore = v
	}
	if v, ok := extractManifestLink(doc); ok {
		r.Manifest = v
	}
	if v, ok := extractOembed(doc); ok {
		r.Oembed = v
	}
	if v, ok := extractRelLinks(doc); ok {
		r.RelLinks = v
	}

	return r
}

// Extractor is the call surface of the library. Each operation stands
// alone: it parses its input, runs the extraction and serializes the
// result. The zero value is ready to use.
//
// An Extractor additionally records the outcome of its last operation
// for [Extractor.LastError] and is therefore not safe for concurrent
// use. Independent Extractors share no state.
type Extractor struct {
	lastErr *Error
}

// New returns a ready to use Extractor.
func New() *Extractor {
	return &Extractor{}
}

// LastError returns the code and message recorded by the last failed
// operation, or (0, "") when the previous operation succeeded.
func (e *Extractor) LastError() (int, string) {
	if e.lastErr == nil {
		return ErrNone, ""
	}
	return e.lastErr.Code, e.lastErr.Message
}

func (e *Extractor) fail(err *Error) error {
	e.lastErr = err
	return err
}

func (e *Extractor) parse(src, baseURL string) (*Document, error) {
	if src == "" {
		return nil, e.fail(invalidInput("HTML input is empty"))
	}
	doc, err := Parse(src, baseURL)
	if err != nil {
		return nil, e.fail(err.(*Error))
	}
	return doc, nil
}

func (e *Extractor) run(src, baseURL string, f func(*Document) any) (string, error) {
	e.lastErr = nil
	doc, err := e.parse(src, baseURL)
	if err != nil {
		return "", err
	}
	return e.encode(f(doc))
}

func (e *Extractor) encode(v any) (string, error) {
	s, err := encodeJSON(v)
	if err != nil {
		return "", e.fail(&Error{Code: ErrOutOfMemory, Message: err.Error()})
	}
	return s, nil
}

// ExtractAll parses src once, runs all extractors and returns the
// combined envelope as JSON.
func (e *Extractor) ExtractAll(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return Extract(d)
	})
}

// ExtractMeta returns standard meta tag information (title, charset,
// meta name/content pairs, canonical link) as a JSON object.
func (e *Extractor) ExtractMeta(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return orObject(extractMeta(d))
	})
}

// ExtractOpenGraph returns Open Graph properties as a JSON object.
func (e *Extractor) ExtractOpenGraph(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return orObject(extractOpenGraph(d))
	})
}

// ExtractTwitter returns Twitter Card properties as a JSON object.
func (e *Extractor) ExtractTwitter(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return orObject(extractTwitter(d))
	})
}

// ExtractTwitterWithFallback returns Twitter Card properties, filling
// the common card fields from Open Graph when the page carries no
// dedicated Twitter markup for them.
func (e *Extractor) ExtractTwitterWithFallback(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return orObject(extractTwitterWithFallback(d))
	})
}

// ExtractJSONLD returns every decodable ld+json block as a JSON array.
// Blocks that are not valid JSON are dropped silently; see
// [jsonld.Extract] for the policy.
func (e *Extractor) ExtractJSONLD(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return jsonld.Extract(d.Root)
	})
}

// ExtractMicrodata returns top-level itemscope items as a JSON array.
func (e *Extractor) ExtractMicrodata(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return microdata.Extract(d.Root, d.Base)
	})
}

// ExtractMicroformats returns Microformats v2 items grouped by root
// class as a JSON object.
func (e *Extractor) ExtractMicroformats(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return microformats.Extract(d.Root, d.Base)
	})
}

// ExtractMicroformatType returns the items of a single Microformats
// root class (for instance "h-card") as a JSON array.
func (e *Extractor) ExtractMicroformatType(src, baseURL, typ string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return microformats.QueryType(d.Root, d.Base, typ)
	})
}

// ExtractRDFa returns RDFa items as a JSON array.
func (e *Extractor) ExtractRDFa(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return rdfa.Extract(d.Root, d.Base)
	})
}

// ExtractDublinCore returns Dublin Core meta elements as a JSON object.
func (e *Extractor) ExtractDublinCore(src string) (string, error) {
	return e.run(src, "", func(d *Document) any {
		return orObject(extractDublinCore(d))
	})
}

// ExtractManifest returns the Web App Manifest link of the document as
// a JSON object with a "url" key, or an empty object when the document
// declares no manifest.
func (e *Extractor) ExtractManifest(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return orObject(extractManifestLink(d))
	})
}

// ParseManifest parses and normalizes a Web App Manifest document. The
// input is JSON, not HTML; invalid JSON is a real failure reported as
// [ErrMalformedPayload].
func (e *Extractor) ParseManifest(src, baseURL string) (string, error) {
	e.lastErr = nil
	if src == "" {
		return "", e.fail(invalidInput("manifest input is empty"))
	}
	m, err := manifest.Parse([]byte(src), urls.ParseBase(baseURL))
	if err != nil {
		return "", e.fail(&Error{Code: ErrMalformedPayload, Message: err.Error()})
	}
	return e.encode(m)
}

// ExtractOembed returns the oEmbed discovery links of the document as a
// JSON object with "json" and/or "xml" keys.
func (e *Extractor) ExtractOembed(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return orObject(extractOembed(d))
	})
}

// ExtractRelLinks returns link relations grouped by keyword as a JSON
// object; each relation maps to the list of its resolved hrefs.
func (e *Extractor) ExtractRelLinks(src, baseURL string) (string, error) {
	return e.run(src, baseURL, func(d *Document) any {
		return orObject(extractRelLinks(d))
	})
}

// orObject normalizes "nothing found" to an empty JSON object.
func orObject(v map[string]any, found bool) any {
	if !found {
		return map[string]any{}
	}
	return v
}

// encodeJSON serializes a value without HTML escaping, so URLs and
// markup fragments come out the way they were authored.
func encodeJSON(v any) (string, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
