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

// Package config holds the behavioral settings shared by the analyzer front ends.
package config

import "strings"

// Flag is a single behavioral option.
type Flag uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated Flag = 1 << iota

	// AllowInsideTry accepts acquisitions bound directly in a try body without a releasing finally block.
	AllowInsideTry
)

var flagNames = [...]struct {
	flag Flag
	name string
}{
	{IncludeGenerated, "generated"},
	{AllowInsideTry, "allow-inside-try"},
}

// Behavior is a set of [Flag] values.
type Behavior struct {
	flags Flag
}

// DefaultBehavior returns the default settings: generated files are skipped and
// acquisitions inside a try body need a releasing finally block.
func DefaultBehavior() Behavior {
	return Behavior{}
}

// NewBehavior creates a [Behavior] with the specified flags enabled.
func NewBehavior(flags ...Flag) Behavior {
	var b Behavior
	for _, f := range flags {
		b.Set(f, true)
	}

	return b
}

// Set enables or disables flag.
func (b *Behavior) Set(flag Flag, value bool) {
	if value {
		b.flags |= flag
	} else {
		b.flags &^= flag
	}
}

// Enabled checks if flag is enabled.
func (b Behavior) Enabled(flag Flag) bool {
	return b.flags&flag != 0
}

func (b Behavior) String() string {
	var names []string
	for _, f := range flagNames {
		if b.Enabled(f.flag) {
			names = append(names, f.name)
		}
	}

	return strings.Join(names, ",")
}
