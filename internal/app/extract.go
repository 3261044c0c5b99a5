// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/cristalhq/acmd"
	"github.com/gabriel-vasile/mimetype"
	"github.com/itchyny/gojq"

	"codeberg.org/metasift/metasift/pkg/metadata"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "extract",
		Description: "Extract metadata from an HTML document",
		ExecFunc:    runExtract,
	})
}

func runExtract(_ context.Context, args []string) error {
	var format, jqExpr string
	var summary bool

	var flags appFlags
	fs := flags.Flags()
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: extract [arguments...] FILE") //nolint:errcheck
		fmt.Fprintln(fs.Output(), "  FILE")                             //nolint:errcheck
		fmt.Fprintln(fs.Output(), "    \tinput file, or - for stdin")   //nolint:errcheck
		fs.PrintDefaults()
	}
	fs.StringVar(&format, "format", "all",
		"format to extract (all, meta, opengraph, twitter, twitter-fallback, jsonld,\n"+
			"microdata, microformats, rdfa, dublincore, manifest, oembed, rel-links,\n"+
			"or a microformat root class such as h-card)")
	fs.StringVar(&jqExpr, "jq", "", "jq filter applied to the result")
	fs.BoolVar(&summary, "summary", false, "print a human readable summary instead of JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	src := strings.TrimSpace(fs.Arg(0))
	if src == "" {
		return errors.New("input file is required")
	}

	cfg, err := flags.setup()
	if err != nil {
		return err
	}

	data, err := readInput(src)
	if err != nil {
		return err
	}

	ex := metadata.New()

	// A JSON input is a Web App Manifest, not an HTML page.
	if mtype := mimetype.Detect(data); mtype.Is("application/json") {
		slog.Debug("input detected as manifest", "type", mtype.String(), "bytes", len(data))
		res, err := ex.ParseManifest(string(data), cfg.BaseURL)
		if err != nil {
			return opError(ex, err)
		}
		return writeResult(res, jqExpr)
	}

	// The summary always reads the full envelope, whatever -format says.
	if summary {
		if err := runSummary(ex, os.Stdout, string(data), cfg.BaseURL); err != nil {
			return opError(ex, err)
		}
		return nil
	}

	res, err := runFormat(ex, format, string(data), cfg.BaseURL)
	if err != nil {
		return opError(ex, err)
	}
	return writeResult(res, jqExpr)
}

func runFormat(ex *metadata.Extractor, format, src, baseURL string) (string, error) {
	switch format {
	case "all":
		return ex.ExtractAll(src, baseURL)
	case "meta":
		return ex.ExtractMeta(src, baseURL)
	case "opengraph", "og":
		return ex.ExtractOpenGraph(src, baseURL)
	case "twitter":
		return ex.ExtractTwitter(src, baseURL)
	case "twitter-fallback":
		return ex.ExtractTwitterWithFallback(src, baseURL)
	case "jsonld":
		return ex.ExtractJSONLD(src, baseURL)
	case "microdata":
		return ex.ExtractMicrodata(src, baseURL)
	case "microformats":
		return ex.ExtractMicroformats(src, baseURL)
	case "rdfa":
		return ex.ExtractRDFa(src, baseURL)
	case "dublincore", "dc":
		return ex.ExtractDublinCore(src)
	case "manifest":
		return ex.ExtractManifest(src, baseURL)
	case "oembed":
		return ex.ExtractOembed(src, baseURL)
	case "rel-links", "rel":
		return ex.ExtractRelLinks(src, baseURL)
	}
	if strings.HasPrefix(format, "h-") {
		return ex.ExtractMicroformatType(src, baseURL, format)
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// writeResult prints the JSON result, optionally piped through a jq
// filter. A filter may emit several values; each one goes on its own
// line.
func writeResult(res, jqExpr string) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	if jqExpr == "" {
		var v any
		if err := json.Unmarshal([]byte(res), &v); err != nil {
			return err
		}
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	query, err := gojq.Parse(jqExpr)
	if err != nil {
		return fmt.Errorf("invalid jq filter: %w", err)
	}

	var input any
	if err := json.Unmarshal([]byte(res), &input); err != nil {
		return err
	}

	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return err
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

type summaryEnvelope struct {
	Meta       map[string]any `json:"meta"`
	OpenGraph  map[string]any `json:"openGraph"`
	Twitter    map[string]any `json:"twitter"`
	DublinCore map[string]any `json:"dublinCore"`
}

// runSummary extracts everything and prints the summary of the
// envelope.
func runSummary(ex *metadata.Extractor, w io.Writer, src, baseURL string) error {
	res, err := ex.ExtractAll(src, baseURL)
	if err != nil {
		return err
	}
	return writeSummary(w, res)
}

// writeSummary prints the common page fields from an extraction
// envelope. Dates found in the metadata are normalized to RFC 3339.
func writeSummary(w io.Writer, res string) error {
	var envelope summaryEnvelope
	if err := json.Unmarshal([]byte(res), &envelope); err != nil {
		return err
	}

	pick := func(key string, sources ...map[string]any) string {
		for _, src := range sources {
			if s, ok := src[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}

	lines := [][2]string{
		{"Title", pick("title", envelope.OpenGraph, envelope.Twitter, envelope.Meta, envelope.DublinCore)},
		{"Description", pick("description", envelope.OpenGraph, envelope.Twitter, envelope.Meta, envelope.DublinCore)},
		{"URL", pick("url", envelope.OpenGraph)},
		{"Canonical", pick("canonical", envelope.Meta)},
		{"Site", pick("site_name", envelope.OpenGraph)},
		{"Author", pick("author", envelope.Meta, envelope.DublinCore)},
		{"Date", summaryDate(envelope)},
	}

	for _, line := range lines {
		if line[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%-12s %s\n", line[0]+":", line[1]) //nolint:errcheck
	}
	return nil
}

func summaryDate(envelope summaryEnvelope) string {
	for _, src := range []map[string]any{envelope.OpenGraph, envelope.DublinCore, envelope.Meta} {
		for _, key := range []string{"article_published_time", "date", "issued"} {
			s, ok := src[key].(string)
			if !ok || s == "" {
				continue
			}
			if t, err := dateparse.ParseAny(s); err == nil {
				return t.Format(time.RFC3339)
			}
			return s
		}
	}
	return ""
}
