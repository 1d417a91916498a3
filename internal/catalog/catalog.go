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

// Package catalog holds the closed-world table of resource-producing methods.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"fillmore-labs.com/closeguard/internal/tree"
)

// Entry names a method whose result must be released by the caller.
type Entry struct {
	Type   string // qualified name of the declaring type or a supertype
	Method string
}

func (e Entry) String() string { return e.Type + "." + e.Method }

// ErrInvalidEntry is returned by [ParseEntry] for malformed entries.
var ErrInvalidEntry = errors.New("invalid factory entry")

// ParseEntry parses an entry in the form "qualified.Type.Method".
func ParseEntry(s string) (Entry, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return Entry{}, fmt.Errorf("%w: %q, expected Type.Method", ErrInvalidEntry, s)
	}

	return Entry{Type: s[:i], Method: s[i+1:]}, nil
}

// Convention describes how resources of a catalog are released and reported.
type Convention struct {
	// CloseMethod is the name of the release method.
	CloseMethod string
	// Format is the diagnostic message, receiving the presentable resource type.
	Format string
	// Fix is the identifier of the suggested fix.
	Fix string
	// ReceiverCloses is set when closing the receiver of the factory call releases the resource.
	ReceiverCloses bool
}

// Catalog is a read-only table of resource factories.
type Catalog struct {
	convention Convention
	factories  map[string][]string // method name -> declaring types
}

// New creates a [Catalog] from a release convention and factory entries.
func New(c Convention, entries ...Entry) *Catalog {
	cat := &Catalog{convention: c, factories: make(map[string][]string, len(entries))}
	cat.add(entries)

	return cat
}

// With returns a copy of c extended by entries.
func (c *Catalog) With(entries ...Entry) *Catalog {
	if len(entries) == 0 {
		return c
	}

	ext := &Catalog{convention: c.convention, factories: maps.Clone(c.factories)}
	for method, types := range ext.factories {
		ext.factories[method] = slices.Clone(types)
	}

	ext.add(entries)

	return ext
}

func (c *Catalog) add(entries []Entry) {
	for _, e := range entries {
		if types := c.factories[e.Method]; !slices.Contains(types, e.Type) {
			c.factories[e.Method] = append(types, e.Type)
		}
	}
}

// Convention returns the release convention of the catalog.
func (c *Catalog) Convention() Convention {
	return c.convention
}

// IsResourceFactory reports whether calling method on a receiver of type recv acquires a resource.
func (c *Catalog) IsResourceFactory(recv tree.Type, method string) bool {
	if recv == nil {
		return false
	}

	for _, t := range c.factories[method] {
		if tree.IsSubtype(recv, t) {
			return true
		}
	}

	return false
}

// Entries returns the catalog entries in a stable order.
func (c *Catalog) Entries() []Entry {
	var entries []Entry
	for _, method := range slices.Sorted(maps.Keys(c.factories)) {
		for _, t := range c.factories[method] {
			entries = append(entries, Entry{Type: t, Method: method})
		}
	}

	return entries
}
