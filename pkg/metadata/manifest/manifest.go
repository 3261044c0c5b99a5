// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package manifest parses Web App Manifest documents.
package manifest

import (
	"encoding/json"
	"fmt"
	"net/url"

	"codeberg.org/metasift/metasift/pkg/urls"
)

// Parse decodes raw manifest JSON and normalizes it. URL-valued members
// (start_url, scope, icon and screenshot sources, shortcut urls) are
// resolved against the base URL; every other member passes through
// verbatim. Unlike the HTML extractors, a manifest that is not valid
// JSON is a real error.
func Parse(data []byte, base *url.URL) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	res := map[string]any{}
	for k, v := range raw {
		switch k {
		case "start_url", "scope", "id":
			res[k] = resolveString(v, base)
		case "icons", "screenshots":
			res[k] = resolveEntries(v, base, "src")
		case "shortcuts":
			res[k] = resolveEntries(v, base, "url")
		default:
			res[k] = v
		}
	}

	return res, nil
}

func resolveString(v any, base *url.URL) any {
	if s, ok := v.(string); ok {
		return urls.Resolve(s, base)
	}
	return v
}

// resolveEntries resolves one URL member inside a list of objects,
// leaving anything with an unexpected shape untouched.
func resolveEntries(v any, base *url.URL, key string) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	for _, x := range list {
		entry, ok := x.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := entry[key].(string); ok {
			entry[key] = urls.Resolve(s, base)
		}
	}
	return list
}
