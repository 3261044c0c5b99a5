// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package urls resolves possibly relative references against a base URL.
package urls

import (
	"net/url"
	"strings"
)

// ParseBase parses a base URL for later resolution. It returns nil when
// the input is empty or not an absolute http(s) URL; resolution against
// a nil base leaves references untouched.
func ParseBase(s string) *url.URL {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	return u
}

// Resolve resolves ref against base. Absolute references and opaque
// schemes (mailto:, tel:, data:) pass through unchanged, as does any
// reference when base is nil or when the reference cannot be parsed.
// Resolve is idempotent: resolving an already resolved reference is a
// no-op.
func Resolve(ref string, base *url.URL) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() || u.Opaque != "" {
		return ref
	}
	return base.ResolveReference(u).String()
}
