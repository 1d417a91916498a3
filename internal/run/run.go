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

package run

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"fillmore-labs.com/closeguard/internal/astutil"
	"fillmore-labs.com/closeguard/internal/catalog"
	"fillmore-labs.com/closeguard/internal/config"
	"fillmore-labs.com/closeguard/internal/gotree"
	"fillmore-labs.com/closeguard/internal/verdict"
)

// ErrResultMissing is returned when a required analyzer result is missing.
// This typically indicates a configuration error where the analyzer's
// Requires field is not properly set.
var ErrResultMissing = errors.New("analyzer result missing")

// Run executes the closeguard analyzer on a package.
func (r *Options) Run(p *analysis.Pass) (any, error) {
	in, ok := p.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("closeguard: %s %w", inspect.Analyzer.Name, ErrResultMissing)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "CloseGuard")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	a := verdict.New(catalog.Go.With(r.Factories...), verdict.Config{
		AllowInsideTry: r.Behavior.Enabled(config.AllowInsideTry),
		Owners:         r.Owners,
	})

	for f := range in.Root().Children() {
		file := f.Node().(*ast.File)

		currentFile := astutil.NewCurrentFile(p.Fset, file)
		if !currentFile.Valid() {
			astutil.InternalError(p, file, "File %s without valid info", file.Name.Name)

			continue
		}

		if currentFile.Generated() && !r.Behavior.Enabled(config.IncludeGenerated) || currentFile.NoLint() {
			continue
		}

		rep := reporter{pass: p, file: currentFile}

		for c := range f.Preorder((*ast.FuncDecl)(nil)) {
			fun := c.Node().(*ast.FuncDecl)

			if fun.Body == nil || astutil.DocHasNoLint(fun.Doc) {
				continue
			}

			region := trace.StartRegion(ctx, "lower")
			root := gotree.Func(p.TypesInfo, fun)
			region.End()

			if err := a.ExamineAll(ctx, root, rep); err != nil {
				return nil, err
			}
		}
	}

	return nil, nil
}
