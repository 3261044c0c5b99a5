// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package manifest_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/metasift/metasift/pkg/metadata/manifest"
	"codeberg.org/metasift/metasift/pkg/urls"
)

func runParse(src string, expected string) func(t *testing.T) {
	return func(t *testing.T) {
		res, err := manifest.Parse([]byte(src), urls.ParseBase("https://example.com"))
		require.NoError(t, err)

		out := new(strings.Builder)
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		require.NoError(t, enc.Encode(res))

		require.JSONEq(t, expected, out.String())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected string
	}{
		{
			"icons resolved, name verbatim",
			`{"name": "Test App", "icons": [{"src": "/icon.png", "sizes": "192x192"}]}`,
			`{"name": "Test App", "icons": [{"src": "https://example.com/icon.png", "sizes": "192x192"}]}`,
		},
		{
			"start_url and scope resolved",
			`{"name": "App", "start_url": "/home", "scope": "/", "display": "standalone"}`,
			`{"name": "App", "start_url": "https://example.com/home", "scope": "https://example.com/", "display": "standalone"}`,
		},
		{
			"unknown members pass through",
			`{"name": "App", "theme_color": "#bada55", "custom_member": {"a": 1}}`,
			`{"name": "App", "theme_color": "#bada55", "custom_member": {"a": 1}}`,
		},
		{
			"shortcuts resolved",
			`{"shortcuts": [{"name": "Feed", "url": "/feed"}]}`,
			`{"shortcuts": [{"name": "Feed", "url": "https://example.com/feed"}]}`,
		},
		{
			"absolute icon source untouched",
			`{"icons": [{"src": "https://cdn.example.org/icon.png", "type": "image/png"}]}`,
			`{"icons": [{"src": "https://cdn.example.org/icon.png", "type": "image/png"}]}`,
		},
		{
			"odd shapes kept verbatim",
			`{"icons": "nope", "start_url": 42}`,
			`{"icons": "nope", "start_url": 42}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, runParse(test.json, test.expected))
	}
}

func TestParseNoBase(t *testing.T) {
	res, err := manifest.Parse([]byte(`{"icons": [{"src": "/icon.png"}]}`), nil)
	require.NoError(t, err)

	icons, ok := res["icons"].([]any)
	require.True(t, ok)
	require.Equal(t, map[string]any{"src": "/icon.png"}, icons[0])
}

func TestParseInvalid(t *testing.T) {
	for _, src := range []string{"", "{BROKEN}", "[1, 2,", "not json at all"} {
		_, err := manifest.Parse([]byte(src), nil)
		require.Error(t, err)
	}
}
