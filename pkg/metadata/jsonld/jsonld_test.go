// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package jsonld_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"codeberg.org/metasift/metasift/pkg/metadata/jsonld"
)

func runExtract(t *testing.T, src string) []any {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return jsonld.Extract(root)
}

func encode(t *testing.T, v any) string {
	t.Helper()
	out := new(strings.Builder)
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(v))
	return out.String()
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			"document order",
			`<html><head>
			<script type="application/ld+json">{"@type": "Article"}</script>
			<script type="application/ld+json">{"@type": "Person"}</script>
			</head></html>`,
			`[{"@type": "Article"}, {"@type": "Person"}]`,
		},
		{
			"invalid block skipped",
			`<html><head>
			<script type="application/ld+json">{"@type": "Article"}</script>
			<script type="application/ld+json">{BROKEN JSON}</script>
			<script type="application/ld+json">{"@type": "Person"}</script>
			</head></html>`,
			`[{"@type": "Article"}, {"@type": "Person"}]`,
		},
		{
			"top-level array flattened",
			`<script type="application/ld+json">
			[{"@type": "Organization", "name": "A"}, {"@type": "Person", "name": "B"}]
			</script>`,
			`[{"@type": "Organization", "name": "A"}, {"@type": "Person", "name": "B"}]`,
		},
		{
			"entities unescaped",
			`<script type="application/ld+json">
			{"@type": "Book", "title": "The Black &middot; Cloud"}
			</script>`,
			`[{"@type": "Book", "title": "The Black · Cloud"}]`,
		},
		{
			"non-ld scripts ignored",
			`<script>var x = {"@type": "Article"};</script>
			<script type="application/json">{"@type": "Article"}</script>`,
			`[]`,
		},
		{
			"nothing found",
			`<html><head><title>Test</title></head></html>`,
			`[]`,
		},
		{
			"scalar block kept",
			`<script type="application/ld+json">"just a string"</script>`,
			`["just a string"]`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := runExtract(t, test.html)
			require.JSONEq(t, test.expected, encode(t, res))
		})
	}
}

func TestExtractKeepsOrder(t *testing.T) {
	src := `<html><head>` +
		`<script type="application/ld+json">{"position": 1}</script>` +
		`<script type="application/ld+json">{"position": 2}</script>` +
		`<script type="application/ld+json">{"position": 3}</script>` +
		`</head></html>`

	res := runExtract(t, src)
	require.Len(t, res, 3)
	for i, v := range res {
		item, ok := v.(map[string]any)
		require.True(t, ok)
		require.EqualValues(t, i+1, item["position"])
	}
}
