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

// Package report writes scan results as text, JSON or SARIF.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fillmore-labs.com/closeguard/internal/scan"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown format")

// Format is an output format.
type Format string

const (
	Text  Format = "text"
	JSON  Format = "json"
	SARIF Format = "sarif"
)

// ParseFormat returns the [Format] named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, SARIF:
		return f, nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Writer writes a scan result.
type Writer interface {
	Write(res *scan.Result) error
}

// NewWriter creates a [Writer] for format f. Color applies to text output only.
func NewWriter(f Format, w io.Writer, color bool) (Writer, error) {
	switch f {
	case Text:
		return NewTextWriter(w, color), nil

	case JSON:
		return NewJSONWriter(w), nil

	case SARIF:
		return NewSARIFWriter(w), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
