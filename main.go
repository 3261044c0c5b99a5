// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"os"

	"codeberg.org/metasift/metasift/internal/app"
)

func main() {
	os.Exit(app.Run())
}
