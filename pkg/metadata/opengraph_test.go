// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/metasift/metasift/pkg/metadata"
)

func TestExtractOpenGraph(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		base     string
		expected string
	}{
		{
			"flat properties",
			`<head>
			<meta property="og:title" content="Article Title">
			<meta property="og:description" content="Article description">
			<meta property="og:type" content="article">
			<meta property="og:site_name" content="Example">
			</head>`,
			"",
			`{
				"title": "Article Title",
				"description": "Article description",
				"type": "article",
				"site_name": "Example"
			}`,
		},
		{
			"image with sub-properties",
			`<head>
			<meta property="og:image" content="https://example.com/image.jpg">
			<meta property="og:image:width" content="1200">
			<meta property="og:image:height" content="630">
			<meta property="og:image:alt" content="A picture">
			</head>`,
			"",
			`{"image": [{
				"url": "https://example.com/image.jpg",
				"width": "1200",
				"height": "630",
				"alt": "A picture"
			}]}`,
		},
		{
			"a new bare property starts a new entry",
			`<head>
			<meta property="og:image" content="/a.jpg">
			<meta property="og:image:alt" content="first">
			<meta property="og:image" content="/b.jpg">
			<meta property="og:image:alt" content="second">
			</head>`,
			"https://example.com",
			`{"image": [
				{"url": "https://example.com/a.jpg", "alt": "first"},
				{"url": "https://example.com/b.jpg", "alt": "second"}
			]}`,
		},
		{
			"image:url duplicate spelling completes the open entry",
			`<head>
			<meta property="og:image" content="/a.jpg">
			<meta property="og:image:url" content="/a.jpg">
			<meta property="og:image:alt" content="A picture">
			</head>`,
			"https://example.com",
			`{"image": [{"url": "https://example.com/a.jpg", "alt": "A picture"}]}`,
		},
		{
			"image:url alone still starts an entry",
			`<meta property="og:image:url" content="/only.jpg">`,
			"https://example.com",
			`{"image": [{"url": "https://example.com/only.jpg"}]}`,
		},
		{
			"url property resolved",
			`<meta property="og:url" content="/article">`,
			"https://example.com",
			`{"url": "https://example.com/article"}`,
		},
		{
			"name attribute accepted",
			`<meta name="og:title" content="Spelled with name">`,
			"",
			`{"title": "Spelled with name"}`,
		},
		{
			"locale alternates accumulate",
			`<head>
			<meta property="og:locale" content="en_US">
			<meta property="og:locale:alternate" content="fr_FR">
			<meta property="og:locale:alternate" content="de_DE">
			</head>`,
			"",
			`{"locale": "en_US", "locale_alternate": ["fr_FR", "de_DE"]}`,
		},
		{
			"video entries",
			`<head>
			<meta property="og:video" content="/movie.mp4">
			<meta property="og:video:type" content="video/mp4">
			</head>`,
			"https://example.com",
			`{"video": [{"url": "https://example.com/movie.mp4", "type": "video/mp4"}]}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := extractJSON(t, func(ex *metadata.Extractor) (string, error) {
				return ex.ExtractOpenGraph(test.html, test.base)
			})
			require.JSONEq(t, test.expected, res)
		})
	}
}

func TestExtractOpenGraphNothingFound(t *testing.T) {
	res := extractJSON(t, func(ex *metadata.Extractor) (string, error) {
		return ex.ExtractOpenGraph("<html><head><title>T</title></head></html>", "")
	})
	require.JSONEq(t, `{}`, res)
}
