// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command javaguard reports Java channels that are not safely closed.
//
// Usage:
//
//	javaguard [flags] path...
//
// The exit status is 1 when leaks are found and 2 on errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"fillmore-labs.com/closeguard/internal/report"
	"fillmore-labs.com/closeguard/internal/scan"
)

var errFindings = errors.New("leaks found")

func main() {
	os.Exit(run(afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the exit status.
func run(fsys afero.Fs, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := newCommand(fsys, stdout, stderr)
	cmd.SetArgs(args)

	switch err := cmd.Execute(); {
	case err == nil:
		return 0

	case errors.Is(err, errFindings):
		return 1

	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return 2
	}
}

type flags struct {
	config         string
	allowInsideTry bool
	owners         []string
	factories      []string
	exclude        []string
	workers        int
	format         string
	color          bool
	verbose        bool
}

func newCommand(fsys afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "javaguard [flags] path...",
		Short: "Report Java channels that are not safely closed",
		Long: `javaguard finds channels obtained by getChannel() from sockets, file streams
and similar resources that are not closed in a finally block on every path.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.scan(cmd, fsys, args, stdout, stderr)
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "configuration file (default "+scan.DefaultConfigFile+" if present)")
	fl.BoolVar(&f.allowInsideTry, "allow-inside-try", false, "accept acquisitions placed directly in a try block")
	fl.StringSliceVar(&f.owners, "owner", nil, "method taking ownership of a channel argument, as pkg.Class.method")
	fl.StringSliceVar(&f.factories, "factory", nil, "additional method returning a channel, as pkg.Class.method")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "doublestar pattern of paths to skip")
	fl.IntVarP(&f.workers, "workers", "j", 0, "number of files processed concurrently (default number of CPUs)")
	fl.StringVarP(&f.format, "format", "f", string(report.Text), "output format: text, json or sarif")
	fl.BoolVar(&f.color, "color", false, "colorize text output")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}

func (f *flags) scan(cmd *cobra.Command, fsys afero.Fs, args []string, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}

	cfg, err := scan.LoadConfig(fsys, f.config)
	if err != nil {
		return err
	}

	fl := cmd.Flags()
	if fl.Changed("allow-inside-try") {
		cfg.AllowInsideTry = f.allowInsideTry
	}

	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}

	cfg.Owners = append(cfg.Owners, f.owners...)
	cfg.Factories = append(cfg.Factories, f.factories...)
	cfg.Exclude = append(cfg.Exclude, f.exclude...)

	s, err := scan.New(fsys, cfg, log)
	if err != nil {
		return err
	}

	res, err := s.Scan(cmd.Context(), args...)
	if err != nil {
		return err
	}

	w, err := report.NewWriter(format, stdout, f.color)
	if err != nil {
		return err
	}

	if err := w.Write(res); err != nil {
		return err
	}

	if len(res.Findings) > 0 {
		return errFindings
	}

	return nil
}
