// SPDX-FileCopyrightText: © 2025 Metasift authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package app provides the metasift command line interface.
package app

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/cristalhq/acmd"
	"github.com/komkom/toml"

	"codeberg.org/metasift/metasift/pkg/metadata"
)

// commands is the command registry. Each command file appends itself in
// its init function.
var commands = []acmd.Command{}

// Config carries the process wide settings. Values come from an
// optional TOML file first, then from METASIFT_* environment variables.
type Config struct {
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`
	BaseURL  string `json:"base_url" env:"BASE_URL"`
	NoColor  bool   `json:"no_color" env:"NO_COLOR"`
}

// LoadConfig reads the configuration file when a path is given and
// applies environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{LogLevel: "info"}

	if path != "" {
		fd, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fd.Close() //nolint:errcheck

		if err := json.NewDecoder(toml.New(fd)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "METASIFT_"}); err != nil {
		return nil, err
	}

	return cfg, nil
}

// appFlags holds the flags shared by every command.
type appFlags struct {
	configPath string
	baseURL    string
}

func (f *appFlags) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "configuration file")
	fs.StringVar(&f.baseURL, "base", "", "base URL for resolving relative links")
	return fs
}

// setup loads the configuration and installs the logger. The -base
// flag wins over the configured base URL.
func (f *appFlags) setup() (*Config, error) {
	cfg, err := LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	initLogger(cfg)
	return cfg, nil
}

// readInput returns the content of a file argument, reading the
// standard input when the argument is "-".
func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// opError decorates a failed extraction with the recorded error code so
// binding-style consumers of the CLI see the same taxonomy.
func opError(ex *metadata.Extractor, err error) error {
	code, msg := ex.LastError()
	if code == metadata.ErrNone {
		return err
	}
	return fmt.Errorf("extraction failed (code %d): %s", code, msg)
}

// Run executes the command line and returns the process exit code.
func Run() int {
	r := acmd.RunnerOf(commands, acmd.Config{
		AppName:        "metasift",
		AppDescription: "Extract structured metadata from HTML documents",
		Version:        metadata.Version,
	})

	if err := r.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err) //nolint:errcheck
		return 1
	}
	return 0
}
