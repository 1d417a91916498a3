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

package report

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"fillmore-labs.com/closeguard/internal/scan"
)

// TextWriter writes one line per finding, compiler style.
type TextWriter struct {
	w  io.Writer
	au aurora.Aurora
}

// NewTextWriter creates a [TextWriter], optionally with ANSI colors.
func NewTextWriter(w io.Writer, color bool) *TextWriter {
	return &TextWriter{w: w, au: aurora.NewAurora(color)}
}

func (t *TextWriter) Write(res *scan.Result) error {
	for _, f := range res.Findings {
		if _, err := fmt.Fprintf(t.w, "%s: %s: %s %s\n",
			t.au.Bold(fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column)),
			t.au.Yellow(f.Severity),
			f.Message,
			t.au.Cyan("["+f.Rule+"]"),
		); err != nil {
			return err
		}
	}

	for _, e := range res.Errors {
		if _, err := fmt.Fprintf(t.w, "%s: %s: %v\n", t.au.Bold(e.Path), t.au.Red("error"), e.Err); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(t.w, "%d %s in %d %s\n",
		len(res.Findings), plural(len(res.Findings), "finding"), res.Files, plural(res.Files, "file"))

	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}
