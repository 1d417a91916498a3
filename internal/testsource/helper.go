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

// Package testsource parses and type-checks Go source fragments for tests.
package testsource

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strings"
	"testing"
)

const testpkg = "test"

var packageClause = regexp.MustCompile(`(?m)^package `)

// Parse parses Go source into an AST and returns the first function declaration.
//
// A src without package clause is a function body fragment; it is wrapped in
// `func _() { ... }` within package `test`, preceded by the given imports.
func Parse(tb testing.TB, src string, imports ...string) (fset *token.FileSet, f *ast.File, fn *ast.FuncDecl) {
	tb.Helper()

	const filename = "test.go"

	if !packageClause.MatchString(src) {
		src = wrapSource(src, imports)
	}

	fset = token.NewFileSet()

	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", src, err)
	}

	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			return fset, f, fn
		}
	}

	tb.Fatal("Can't find function")

	return nil, nil, nil
}

// Check type-checks the file and returns the package and the recorded type information.
// Imports of the stub packages resolve to them, all others to the default importer.
func Check(tb testing.TB, fset *token.FileSet, f *ast.File, stubs ...*types.Package) (*types.Package, *types.Info) {
	tb.Helper()

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Instances:  make(map[*ast.Ident]types.Instance),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}

	imp := stubImporter{stubs: make(map[string]*types.Package, len(stubs)), fallback: importer.Default()}
	for _, pkg := range stubs {
		imp.stubs[pkg.Path()] = pkg
	}

	conf := types.Config{Importer: imp}

	pkg, err := conf.Check(testpkg, fset, []*ast.File{f}, info)
	if err != nil {
		tb.Fatalf("failed to type Check source: %v", err)
	}

	return pkg, info
}

func wrapSource(src string, imports []string) string {
	var b strings.Builder

	b.WriteString("package " + testpkg + "\n\n")

	for _, imp := range imports {
		b.WriteString("import \"" + imp + "\"\n")
	}

	b.WriteString("\nfunc _() {\n")
	b.WriteString(src)
	b.WriteString("\n}\n")

	return b.String()
}

// Stub creates a complete package for [Check]. Each declaration is a function name
// or "Type.Method", declaring a method on a pointer to the struct type Type.
// All functions take variadic arguments of type any.
func Stub(path, name string, decls ...string) *types.Package {
	pkg := types.NewPackage(path, name)
	scope := pkg.Scope()

	for _, decl := range decls {
		args := types.NewTuple(types.NewParam(token.NoPos, pkg, "args", types.NewSlice(types.Universe.Lookup("any").Type())))

		typ, method, ok := strings.Cut(decl, ".")
		if !ok {
			scope.Insert(types.NewFunc(token.NoPos, pkg, decl, types.NewSignatureType(nil, nil, nil, args, nil, true)))

			continue
		}

		var named *types.Named
		if obj, ok := scope.Lookup(typ).(*types.TypeName); ok {
			named, _ = obj.Type().(*types.Named)
		} else {
			obj := types.NewTypeName(token.NoPos, pkg, typ, nil)
			named = types.NewNamed(obj, types.NewStruct(nil, nil), nil)
			scope.Insert(obj)
		}

		recv := types.NewParam(token.NoPos, pkg, "", types.NewPointer(named))
		named.AddMethod(types.NewFunc(token.NoPos, pkg, method, types.NewSignatureType(recv, nil, nil, args, nil, true)))
	}

	pkg.MarkComplete()

	return pkg
}

type stubImporter struct {
	stubs    map[string]*types.Package
	fallback types.Importer
}

func (i stubImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := i.stubs[path]; ok {
		return pkg, nil
	}

	return i.fallback.Import(path)
}
