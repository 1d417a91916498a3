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

package tree

// Type is the static type of an expression as seen by a front end.
type Type interface {
	// Name returns the qualified name used for catalog lookups, like "java.net.Socket".
	Name() string
	// Presentable returns the name shown in diagnostics.
	Presentable() string
	// Supertypes returns the direct supertypes.
	Supertypes() []Type
}

// IsSubtype reports whether t is the type named name or one of its transitive supertypes is.
func IsSubtype(t Type, name string) bool {
	if t == nil {
		return false
	}

	seen := make(map[string]struct{})
	work := []Type{t}

	for len(work) > 0 {
		t, work = work[len(work)-1], work[:len(work)-1]
		if t == nil {
			continue
		}

		n := t.Name()
		if n == name {
			return true
		}

		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}

		work = append(work, t.Supertypes()...)
	}

	return false
}

// Presentable returns the presentable name of t, or "" for a nil type.
func Presentable(t Type) string {
	if t == nil {
		return ""
	}

	return t.Presentable()
}
