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

package analyzer_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	. "fillmore-labs.com/closeguard/analyzer"
)

func TestOptionsLogValue(t *testing.T) {
	t.Parallel()

	opts := Options{
		WithGenerated(true),
		nil,
		Options{WithAllowInsideTry(false), WithOwners("os.NewFile")},
		WithFactories(Factory{Type: "example.com/pipe.Pipe", Method: "Dup"}),
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}))

	logger.LogAttrs(t.Context(), slog.LevelInfo, "configured", opts.LogAttr())

	for _, want := range []string{
		"options.generated=true",
		"options.nil=<nil>",
		"options.allow-inside-try=false",
		"options.owners=[os.NewFile]",
		"options.factories=[example.com/pipe.Pipe.Dup]",
	} {
		if got := buf.String(); !strings.Contains(got, want) {
			t.Errorf("log output %q does not contain %q", got, want)
		}
	}
}
