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

package java

import (
	"errors"
	"strings"
	"sync"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"fillmore-labs.com/closeguard/internal/tree"
)

// ErrFrozen is returned when classes are declared after [Hierarchy.Freeze].
var ErrFrozen = errors.New("hierarchy is frozen")

// Hierarchy holds the classes of all scanned files plus known platform classes.
//
// Classes are added with [Hierarchy.Declare], possibly concurrently. After
// [Hierarchy.Freeze] the hierarchy is read only and safe for concurrent lookups.
type Hierarchy struct {
	mu       sync.Mutex
	frozen   bool
	classes  map[string]*Class
	platform map[string][]string // simple name to qualified platform names
}

// NewHierarchy creates a [Hierarchy] populated with platform classes.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{
		classes:  make(map[string]*Class, len(jdk)),
		platform: make(map[string][]string, len(jdk)),
	}

	for _, j := range jdk {
		c := &Class{h: h, name: j.name, simple: simpleName(j.name), supers: j.supers, methods: j.methods}
		h.classes[j.name] = c
		h.platform[c.simple] = append(h.platform[c.simple], j.name)
	}

	return h
}

// Class is a declared or platform class, implementing [tree.Type].
type Class struct {
	h       *Hierarchy
	name    string
	simple  string
	supers  []string
	fields  map[string]string
	methods map[string]string
	src     *classSource // nil for platform classes
}

// classSource keeps the unresolved declaration until [Hierarchy.Freeze].
type classSource struct {
	path    string
	scope   typeScope
	supers  []string
	fields  map[string]string
	methods map[string]string
}

func (c *Class) Name() string { return c.name }

func (c *Class) Presentable() string { return c.simple }

func (c *Class) Supertypes() []tree.Type {
	types := make([]tree.Type, 0, len(c.supers))
	for _, s := range c.supers {
		if t := c.h.Type(s); t != nil {
			types = append(types, t)
		}
	}

	return types
}

// unresolved is a type unknown to the hierarchy.
type unresolved string

func (u unresolved) Name() string { return string(u) }

func (u unresolved) Presentable() string { return simpleName(string(u)) }

func (unresolved) Supertypes() []tree.Type { return nil }

// Declare adds the classes declared in f.
func (h *Hierarchy) Declare(f *File) error {
	decls := f.declare(f.root(), nil, nil)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.frozen {
		return ErrFrozen
	}

	for _, c := range decls {
		// Duplicates are resolved by path, independent of declaration order.
		if old, ok := h.classes[c.name]; ok && (old.src == nil || old.src.path <= c.src.path) {
			continue
		}

		c.h = h
		h.classes[c.name] = c
	}

	return nil
}

// Freeze resolves all declared type names. The hierarchy is read only afterwards.
func (h *Hierarchy) Freeze() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.frozen {
		return
	}

	h.frozen = true

	for _, c := range h.classes {
		if c.src == nil {
			continue
		}

		s := &c.src.scope

		c.supers = make([]string, 0, len(c.src.supers))
		for _, raw := range c.src.supers {
			if name := h.resolve(s, raw); name != "" {
				c.supers = append(c.supers, name)
			}
		}

		c.fields = h.resolveAll(s, c.src.fields)
		c.methods = h.resolveAll(s, c.src.methods)
	}
}

func (h *Hierarchy) resolveAll(s *typeScope, raw map[string]string) map[string]string {
	m := make(map[string]string, len(raw))
	for k, v := range raw {
		m[k] = h.resolve(s, v)
	}

	return m
}

// Lookup returns the class with the qualified name.
func (h *Hierarchy) Lookup(name string) (*Class, bool) {
	c, ok := h.classes[name]

	return c, ok
}

// Type returns the type for a resolved name, nil for void or an empty name.
func (h *Hierarchy) Type(name string) tree.Type {
	switch name {
	case "", "void":
		return nil
	}

	if c, ok := h.classes[name]; ok {
		return c
	}

	return unresolved(name)
}

// methodType returns the return type of method name on t or its supertypes.
func (h *Hierarchy) methodType(t tree.Type, name string) tree.Type {
	return h.member(t, func(c *Class) (string, bool) {
		r, ok := c.methods[name]

		return r, ok
	})
}

// fieldType returns the type of field name on t or its supertypes.
func (h *Hierarchy) fieldType(t tree.Type, name string) (tree.Type, bool) {
	found := false
	typ := h.member(t, func(c *Class) (string, bool) {
		r, ok := c.fields[name]
		found = found || ok

		return r, ok
	})

	return typ, found
}

func (h *Hierarchy) member(t tree.Type, get func(c *Class) (string, bool)) tree.Type {
	seen := make(map[string]struct{})
	work := []tree.Type{t}

	for len(work) > 0 {
		t, work = work[0], work[1:]

		c, ok := t.(*Class)
		if !ok {
			continue
		}

		if _, ok := seen[c.name]; ok {
			continue
		}
		seen[c.name] = struct{}{}

		if r, ok := get(c); ok {
			return h.Type(r)
		}

		work = append(work, c.Supertypes()...)
	}

	return nil
}

// typeScope is the context for resolving simple type names.
type typeScope struct {
	pkg     string
	imports *imports
	outer   []string // enclosing classes, innermost first
}

type imports struct {
	single   map[string]string // simple name to qualified name
	wildcard []string          // packages or classes imported on demand
	static   map[string]string // statically imported member to its class
}

// resolve returns the qualified name for a type name as written in source.
func (h *Hierarchy) resolve(s *typeScope, raw string) string {
	name := cleanType(raw)
	if name == "" || strings.HasSuffix(name, "]") || isPrimitive(name) {
		return name
	}

	first, rest, dotted := strings.Cut(name, ".")
	qualify := func(q string) string {
		if dotted {
			return q + "." + rest
		}

		return q
	}

	for _, o := range s.outer {
		if _, ok := h.classes[o+"."+first]; ok {
			return qualify(o + "." + first)
		}
	}

	if q, ok := s.imports.single[first]; ok {
		return qualify(q)
	}

	candidates := make([]string, 0, 2+len(s.imports.wildcard))
	if s.pkg != "" {
		candidates = append(candidates, s.pkg+"."+first)
	} else {
		candidates = append(candidates, first)
	}

	candidates = append(candidates, "java.lang."+first)
	for _, w := range s.imports.wildcard {
		candidates = append(candidates, w+"."+first)
	}

	for _, q := range candidates {
		if _, ok := h.classes[q]; ok {
			return qualify(q)
		}
	}

	if _, ok := h.classes[name]; ok {
		return name
	}

	// Sources without imports still name well known platform classes.
	if q := h.platform[first]; len(q) == 1 && !isLower(first) {
		return qualify(q[0])
	}

	return name
}

// cleanType removes whitespace and type arguments from a type as written in source.
func cleanType(s string) string {
	var b strings.Builder

	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth > 0, unicode.IsSpace(r):
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isPrimitive(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double", "void", "var":
		return true
	}

	return false
}

func isLower(name string) bool {
	return name != "" && unicode.IsLower(rune(name[0]))
}

func simpleName(name string) string { return name[strings.LastIndexByte(name, '.')+1:] }

var classDecls = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

// declare collects the class declarations below parent.
func (f *File) declare(parent *sitter.Node, outer []string, out []*Class) []*Class {
	for n := range named(parent) {
		if !classDecls[n.Type()] {
			continue
		}

		id := n.ChildByFieldName("name")
		if id == nil {
			continue
		}

		simple := f.text(id)
		qual := f.qualify(simple, outer)
		inner := append([]string{qual}, outer...)
		c := &Class{
			name:   qual,
			simple: simple,
			src: &classSource{
				path:    f.Path,
				scope:   typeScope{pkg: f.pkg, imports: &f.imports, outer: inner},
				supers:  f.supertypes(n),
				fields:  make(map[string]string),
				methods: make(map[string]string),
			},
		}

		if params := n.ChildByFieldName("parameters"); params != nil {
			// Record components are fields with accessors.
			for p := range named(params) {
				if id, typ := p.ChildByFieldName("name"), p.ChildByFieldName("type"); id != nil && typ != nil {
					c.src.fields[f.text(id)] = f.text(typ)
					c.src.methods[f.text(id)] = f.text(typ)
				}
			}
		}

		body := n.ChildByFieldName("body")
		f.members(c.src, body)
		out = append(out, c)
		out = f.declare(body, inner, out)

		if decls := firstNamed(body, "enum_body_declarations"); decls != nil {
			f.members(c.src, decls)
			out = f.declare(decls, inner, out)
		}
	}

	return out
}

// qualify returns the qualified name of a class declared in outer.
func (f *File) qualify(simple string, outer []string) string {
	switch {
	case len(outer) > 0:
		return outer[0] + "." + simple
	case f.pkg != "":
		return f.pkg + "." + simple
	default:
		return simple
	}
}

func (f *File) supertypes(decl *sitter.Node) []string {
	var supers []string

	for c := range named(decl) {
		switch c.Type() {
		case "superclass", "super_interfaces", "extends_interfaces":
			for t := range named(c) {
				if t.Type() != "type_list" {
					supers = append(supers, f.text(t))

					continue
				}

				for e := range named(t) {
					supers = append(supers, f.text(e))
				}
			}
		}
	}

	return supers
}

func (f *File) members(src *classSource, body *sitter.Node) {
	for m := range named(body) {
		switch m.Type() {
		case "field_declaration", "constant_declaration":
			typ := m.ChildByFieldName("type")
			if typ == nil {
				continue
			}

			for d := range named(m) {
				if id := d.ChildByFieldName("name"); d.Type() == "variable_declarator" && id != nil {
					src.fields[f.text(id)] = f.text(typ)
				}
			}

		case "method_declaration":
			id, typ := m.ChildByFieldName("name"), m.ChildByFieldName("type")
			if id == nil || typ == nil {
				continue
			}

			if _, ok := src.methods[f.text(id)]; !ok {
				src.methods[f.text(id)] = f.text(typ)
			}
		}
	}
}
