// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/cristalhq/acmd"

	"codeberg.org/metasift/metasift/pkg/metadata"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "manifest",
		Description: "Parse and normalize a Web App Manifest",
		ExecFunc:    runManifest,
	})
}

func runManifest(_ context.Context, args []string) error {
	var jqExpr string

	var flags appFlags
	fs := flags.Flags()
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: manifest [arguments...] FILE") //nolint:errcheck
		fmt.Fprintln(fs.Output(), "  FILE")                              //nolint:errcheck
		fmt.Fprintln(fs.Output(), "    \tmanifest file, or - for stdin") //nolint:errcheck
		fs.PrintDefaults()
	}
	fs.StringVar(&jqExpr, "jq", "", "jq filter applied to the result")

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
	res, err := ex.ParseManifest(string(data), cfg.BaseURL)
	if err != nil {
		return opError(ex, err)
	}

	return writeResult(res, jqExpr)
}
