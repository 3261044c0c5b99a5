// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/metasift/metasift/pkg/metadata"
)

func TestExtractRelLinks(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		base     string
		expected string
	}{
		{
			"links grouped by relation",
			`<head>
			<link rel="stylesheet" href="/main.css">
			<link rel="stylesheet" href="/print.css">
			<link rel="icon" href="/favicon.ico">
			</head>`,
			"https://example.com",
			`{
				"stylesheet": ["https://example.com/main.css", "https://example.com/print.css"],
				"icon": ["https://example.com/favicon.ico"]
			}`,
		},
		{
			"multi-keyword rel contributes to each",
			`<link rel="shortcut icon" href="/fav.png">`,
			"https://example.com",
			`{
				"shortcut": ["https://example.com/fav.png"],
				"icon": ["https://example.com/fav.png"]
			}`,
		},
		{
			"anchors participate",
			`<body>
			<a rel="me" href="https://social.example/@jane">Jane</a>
			<a rel="nofollow" href="/out">out</a>
			</body>`,
			"https://example.com",
			`{
				"me": ["https://social.example/@jane"],
				"nofollow": ["https://example.com/out"]
			}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := extractJSON(t, func(ex *metadata.Extractor) (string, error) {
				return ex.ExtractRelLinks(test.html, test.base)
			})
			require.JSONEq(t, test.expected, res)
		})
	}
}

func TestExtractOembed(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			"json and xml endpoints",
			`<head>
			<link rel="alternate" type="application/json+oembed" href="/oembed?format=json">
			<link rel="alternate" type="text/xml+oembed" href="/oembed?format=xml">
			</head>`,
			`{
				"json": "https://example.com/oembed?format=json",
				"xml": "https://example.com/oembed?format=xml"
			}`,
		},
		{
			"first of each kind wins",
			`<head>
			<link rel="alternate" type="application/json+oembed" href="/first">
			<link rel="alternate" type="application/json+oembed" href="/second">
			</head>`,
			`{"json": "https://example.com/first"}`,
		},
		{
			"other alternates ignored",
			`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`,
			`{}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := extractJSON(t, func(ex *metadata.Extractor) (string, error) {
				return ex.ExtractOembed(test.html, "https://example.com")
			})
			require.JSONEq(t, test.expected, res)
		})
	}
}

func TestExtractManifest(t *testing.T) {
	res := extractJSON(t, func(ex *metadata.Extractor) (string, error) {
		return ex.ExtractManifest(
			`<head><link rel="manifest" href="/app.webmanifest"></head>`,
			"https://example.com")
	})
	require.JSONEq(t, `{"url": "https://example.com/app.webmanifest"}`, res)

	res = extractJSON(t, func(ex *metadata.Extractor) (string, error) {
		return ex.ExtractManifest(`<head><title>T</title></head>`, "https://example.com")
	})
	require.JSONEq(t, `{}`, res)
}
