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
	"context"
	"errors"
	"fmt"
	"go/token"
	"iter"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// ErrParse is returned for Java sources with syntax errors.
var ErrParse = errors.New("parse error")

// parsers holds tree-sitter parsers, a parser must not be used concurrently.
var parsers = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(java.GetLanguage())

		return p
	},
}

// File is a parsed Java compilation unit.
type File struct {
	Path    string
	src     []byte
	tree    *sitter.Tree
	tf      *token.File
	pkg     string
	imports imports
}

// Parse parses the Java source src, registering it with fset for position lookups.
func Parse(ctx context.Context, fset *token.FileSet, path string, src []byte) (*File, error) {
	p := parsers.Get().(*sitter.Parser)
	defer parsers.Put(p)

	t, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		p.Reset()

		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tf := fset.AddFile(path, -1, len(src))
	tf.SetLinesForContent(src)

	root := t.RootNode()
	if root.HasError() {
		pos := tf.Position(tf.Pos(int(firstError(root).StartByte())))
		t.Close()

		return nil, fmt.Errorf("%s: %w", pos, ErrParse)
	}

	f := &File{Path: path, src: src, tree: t, tf: tf}
	f.header(root)

	return f, nil
}

// Close releases the syntax tree.
func (f *File) Close() { f.tree.Close() }

// Package returns the declared package, empty for the default package.
func (f *File) Package() string { return f.pkg }

func (f *File) root() *sitter.Node { return f.tree.RootNode() }

func (f *File) text(n *sitter.Node) string { return n.Content(f.src) }

func (f *File) pos(n *sitter.Node) token.Pos { return f.tf.Pos(int(n.StartByte())) }

func (f *File) end(n *sitter.Node) token.Pos { return f.tf.Pos(int(n.EndByte())) }

// header collects the package clause and imports.
func (f *File) header(root *sitter.Node) {
	f.imports.single = make(map[string]string)
	f.imports.static = make(map[string]string)

	for n := range named(root) {
		switch n.Type() {
		case "package_declaration":
			if name := firstNamed(n, "scoped_identifier", "identifier"); name != nil {
				f.pkg = f.text(name)
			}

		case "import_declaration":
			f.importDecl(n)
		}
	}
}

func (f *File) importDecl(n *sitter.Node) {
	var (
		path     string
		static   bool
		wildcard bool
	)

	for i := range int(n.ChildCount()) {
		switch c := n.Child(i); c.Type() {
		case "static":
			static = true

		case "scoped_identifier", "identifier":
			path = f.text(c)

		case "asterisk":
			wildcard = true
		}
	}

	switch {
	case path == "" || static && wildcard:

	case static:
		// import static p.C.m imports a member of p.C, not a type.
		if i := strings.LastIndexByte(path, '.'); i > 0 {
			f.imports.static[path[i+1:]] = path[:i]
		}

	case wildcard:
		f.imports.wildcard = append(f.imports.wildcard, path)

	default:
		f.imports.single[path[strings.LastIndexByte(path, '.')+1:]] = path
	}
}

// named yields the named children of n.
func named(n *sitter.Node) iter.Seq[*sitter.Node] {
	return func(yield func(*sitter.Node) bool) {
		if n == nil {
			return
		}

		for i := range int(n.NamedChildCount()) {
			if !yield(n.NamedChild(i)) {
				return
			}
		}
	}
}

// firstNamed returns the first named child of n with one of the given types.
func firstNamed(n *sitter.Node, types ...string) *sitter.Node {
	for c := range named(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}

	return nil
}

// firstError returns the first erroneous or missing node below n.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}

	for i := range int(n.ChildCount()) {
		if c := n.Child(i); c.HasError() || c.IsMissing() {
			return firstError(c)
		}
	}

	return n
}
