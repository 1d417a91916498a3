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

// Package scan runs the channel leak analysis over a tree of Java sources.
package scan

import (
	"cmp"
	"context"
	"fmt"
	"go/token"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"runtime/trace"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/closeguard/internal/catalog"
	"fillmore-labs.com/closeguard/internal/java"
	"fillmore-labs.com/closeguard/internal/verdict"
)

// Rule identifies findings of the analysis.
const Rule = "ChannelOpenedButNotSafelyClosed"

// Scanner finds channels that are not safely closed in Java sources.
type Scanner struct {
	fs       afero.Fs
	cfg      Config
	log      *slog.Logger
	analyzer *verdict.Analyzer
}

// New creates a [Scanner] reading from fsys.
func New(fsys afero.Fs, cfg Config, log *slog.Logger) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factories, _ := cfg.factories()

	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	a := verdict.New(catalog.Java.With(factories...), verdict.Config{
		AllowInsideTry: cfg.AllowInsideTry,
		Owners:         cfg.Owners,
	})

	return &Scanner{fs: fsys, cfg: cfg, log: log, analyzer: a}, nil
}

// Result holds the outcome of a scan.
type Result struct {
	// Files is the number of scanned files.
	Files int
	// Findings are sorted by path and position.
	Findings []Finding
	// Errors lists files that could not be read or parsed.
	Errors []FileError
}

// Finding is a reported leak.
type Finding struct {
	Rule      string `json:"rule"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Fix       string `json:"fix,omitempty"`
	Variable  string `json:"variable,omitempty"`
}

// FileError is a file that could not be analyzed.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Err.Error() }

func (e FileError) Unwrap() error { return e.Err }

// Scan analyzes the Java files below roots. Roots may be files or directories.
func (s *Scanner) Scan(ctx context.Context, roots ...string) (*Result, error) {
	ctx, task := trace.NewTask(ctx, "Scan")
	defer task.End()

	paths, err := s.collect(roots)
	if err != nil {
		return nil, err
	}

	s.log.LogAttrs(ctx, slog.LevelDebug, "Scanning", slog.Int("files", len(paths)), slog.Any("config", s.cfg))

	fset := token.NewFileSet()
	h := java.NewHierarchy()

	files := make([]*java.File, len(paths))
	defer func() {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
	}()

	errs := make([]error, len(paths))

	if err := s.each(ctx, paths, func(ctx context.Context, i int) error {
		defer trace.StartRegion(ctx, "parse").End()

		f, err := s.parse(ctx, fset, paths[i])
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			errs[i] = err

			return nil
		}

		files[i] = f

		return h.Declare(f)
	}); err != nil {
		return nil, err
	}

	h.Freeze()

	findings := make([][]Finding, len(paths))

	if err := s.each(ctx, paths, func(ctx context.Context, i int) error {
		if files[i] == nil {
			return nil
		}

		defer trace.StartRegion(ctx, "analyze").End()

		sink := verdict.SinkFunc(func(d verdict.Diagnostic) {
			findings[i] = append(findings[i], finding(fset, d))
		})

		for _, root := range java.Lower(h, files[i]) {
			if err := s.analyzer.ExamineAll(ctx, root, sink); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return nil, err
	}

	res := &Result{Files: len(paths)}

	for i, err := range errs {
		if err != nil {
			s.log.LogAttrs(ctx, slog.LevelWarn, "Skipping file", slog.String("path", paths[i]), slog.Any("error", err))
			res.Errors = append(res.Errors, FileError{Path: paths[i], Err: err})
		}
	}

	res.Findings = slices.Concat(findings...)
	slices.SortFunc(res.Findings, func(a, b Finding) int {
		return cmp.Or(
			strings.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
		)
	})

	s.log.LogAttrs(ctx, slog.LevelDebug, "Scan done",
		slog.Int("files", res.Files), slog.Int("findings", len(res.Findings)), slog.Int("errors", len(res.Errors)))

	return res, nil
}

// each runs f for every path index on a limited worker pool.
func (s *Scanner) each(ctx context.Context, paths []string, f func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return f(ctx, i)
		})
	}

	return g.Wait()
}

func (s *Scanner) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}

	return runtime.GOMAXPROCS(0)
}

func (s *Scanner) parse(ctx context.Context, fset *token.FileSet, path string) (*java.File, error) {
	src, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}

	return java.Parse(ctx, fset, path, src)
}

// collect returns the sorted Java files below roots, honoring exclude patterns.
func (s *Scanner) collect(roots []string) ([]string, error) {
	var paths []string

	for _, root := range roots {
		info, err := s.fs.Stat(root)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			paths = append(paths, root)

			continue
		}

		err = afero.Walk(s.fs, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			if rel != "." && s.excluded(filepath.ToSlash(rel)) {
				if info.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if !info.IsDir() && strings.HasSuffix(path, ".java") {
				paths = append(paths, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	slices.Sort(paths)

	return slices.Compact(paths), nil
}

func (s *Scanner) excluded(rel string) bool {
	for _, p := range s.cfg.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	return false
}

func finding(fset *token.FileSet, d verdict.Diagnostic) Finding {
	start, end := fset.Position(d.Pos), fset.Position(d.End)

	return Finding{
		Rule:      Rule,
		Path:      start.Filename,
		Line:      start.Line,
		Column:    start.Column,
		EndLine:   end.Line,
		EndColumn: end.Column,
		Severity:  d.Severity.String(),
		Message:   d.Message,
		Fix:       d.Fix.ID,
		Variable:  d.Fix.Var,
	}
}
