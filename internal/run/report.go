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
	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/closeguard/internal/astutil"
	"fillmore-labs.com/closeguard/internal/verdict"
)

// reporter forwards leak diagnostics to the analysis pass.
type reporter struct {
	pass *analysis.Pass
	file astutil.CurrentFile
}

func (r reporter) Report(d verdict.Diagnostic) {
	if r.file.NoLintComment(d.Pos) {
		return
	}

	diag := analysis.Diagnostic{
		Pos:      d.Pos,
		End:      d.End,
		Category: d.Severity.String(),
		Message:  d.Message,
	}

	if d.Fix.Var != "" {
		if next := r.file.NextLine(d.Fix.After); next.IsValid() {
			stmt := "defer " + d.Fix.Var + ".Close()"
			diag.SuggestedFixes = []analysis.SuggestedFix{{
				Message: "Add " + stmt,
				TextEdits: []analysis.TextEdit{{
					Pos:     next,
					End:     next,
					NewText: []byte(r.file.Indent(d.Fix.Stmt) + stmt + "\n"),
				}},
			}}
		}
	}

	r.pass.Report(diag)
}
