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
	"flag"
	"strings"
	"testing"

	. "fillmore-labs.com/closeguard/analyzer"
	"fillmore-labs.com/closeguard/internal/config"
)

func TestFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial []config.Flag
		args    []string
		want    bool
	}{
		{
			name:    "Enable",
			initial: []config.Flag{config.IncludeGenerated},
			args:    []string{"-allow-inside-try"},
			want:    true,
		},
		{
			name:    "Disable",
			initial: []config.Flag{config.AllowInsideTry},
			args:    []string{"-allow-inside-try=false"},
			want:    false,
		},
		{
			name:    "Keep",
			initial: []config.Flag{config.AllowInsideTry},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := config.NewBehavior(tt.initial...)

			fs := flag.NewFlagSet("test", flag.ContinueOnError)

			fv := NewBehaviorValue(&b, config.AllowInsideTry)
			fs.Var(fv, "allow-inside-try", "accept acquisitions inside try")

			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if fv.Get() != tt.want {
				t.Errorf("Flag get = %v, want %v", fv.Get(), tt.want)
			}

			if b.Enabled(config.AllowInsideTry) != tt.want {
				t.Errorf("AllowInsideTry enabled = %v, want %v", b.Enabled(config.AllowInsideTry), tt.want)
			}
		})
	}
}

func TestFlagValueInvalid(t *testing.T) {
	t.Parallel()

	var b config.Behavior

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	fs.Var(NewBehaviorValue(&b, config.IncludeGenerated), "generated", "check generated files")

	if err := fs.Parse([]string{"-generated=maybe"}); err == nil {
		t.Error("Parse accepted an invalid boolean")
	}
}

func TestAnalyzerFlags(t *testing.T) {
	t.Parallel()

	a := New()

	args := []string{
		"-generated",
		"-owners", "os.NewFile, (example.com/pool.Pool).Register",
		"-factories", "example.com/pipe.Pipe.Dup",
	}

	if err := a.Flags.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got, want := a.Flags.Lookup("owners").Value.String(), "os.NewFile,(example.com/pool.Pool).Register"; got != want {
		t.Errorf("owners = %q, want %q", got, want)
	}

	if got, want := a.Flags.Lookup("factories").Value.String(), "example.com/pipe.Pipe.Dup"; got != want {
		t.Errorf("factories = %q, want %q", got, want)
	}

	if got := a.Flags.Lookup("generated").Value.String(); got != "true" {
		t.Errorf("generated = %q, want true", got)
	}

	if err := a.Flags.Set("factories", "Dup"); err == nil {
		t.Error("Set accepted a factory without type")
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()

	b := config.NewBehavior(config.IncludeGenerated)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(NewBehaviorValue(&b, config.IncludeGenerated), "generated", "check generated files")

	const expectedUsage = `
  -generated
    	check generated files (default true)
`

	var out strings.Builder
	fs.SetOutput(&out)
	fs.Usage()

	if got, want := out.String(), expectedUsage; !strings.HasSuffix(got, want) {
		t.Errorf("Usage() = %q, want suffix %q", got, want)
	}
}
