// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package metadata

// Error codes reported through [Extractor.LastError]. A binding layer
// exposes these as the last-error code of its calling thread.
const (
	// ErrNone means the previous operation succeeded.
	ErrNone = 0
	// ErrInvalidInput means the primary input (HTML, or JSON for
	// manifest parsing) was missing.
	ErrInvalidInput = 1
	// ErrMalformedPayload means a manifest document was not valid JSON.
	ErrMalformedPayload = 2
	// ErrOutOfMemory is reserved for result construction failures.
	ErrOutOfMemory = 3
)

// Error is an operation failure carrying a stable code alongside a
// human readable message.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalidInput(msg string) *Error {
	return &Error{Code: ErrInvalidInput, Message: msg}
}
