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
	"encoding/json"
	"io"

	"fillmore-labs.com/closeguard/internal/scan"
)

// JSONWriter writes the result as an indented JSON document.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a [JSONWriter].
func NewJSONWriter(w io.Writer) *JSONWriter { return &JSONWriter{w: w} }

type jsonResult struct {
	Files    int            `json:"files"`
	Findings []scan.Finding `json:"findings"`
	Errors   []jsonError    `json:"errors,omitempty"`
}

type jsonError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (j *JSONWriter) Write(res *scan.Result) error {
	out := jsonResult{Files: res.Files, Findings: res.Findings}
	if out.Findings == nil {
		out.Findings = []scan.Finding{}
	}

	for _, e := range res.Errors {
		out.Errors = append(out.Errors, jsonError{Path: e.Path, Message: e.Error()})
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
