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
	"go/token"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"fillmore-labs.com/closeguard/internal/tree"
)

// Lower converts the methods, constructors, initializers and field initializers
// of f into linked function roots. Lambdas, anonymous and local classes stay
// nested in their enclosing root. h must be frozen.
func Lower(h *Hierarchy, f *File) []*tree.Node {
	l := &lowerer{h: h, f: f}
	l.classes(f.root(), nil)

	return l.roots
}

type lowerer struct {
	h     *Hierarchy
	f     *File
	roots []*tree.Node

	// current class
	class  tree.Type
	types  typeScope
	fields map[string]*tree.Var

	// current root
	scope *scope
	seen  map[string]*tree.Var // every local declared so far, by name
}

type scope struct {
	parent *scope
	vars   map[string]*tree.Var
}

func (l *lowerer) classes(parent *sitter.Node, outer []string) {
	for n := range named(parent) {
		if !classDecls[n.Type()] {
			continue
		}

		id := n.ChildByFieldName("name")
		if id == nil {
			continue
		}

		qual := l.f.qualify(l.f.text(id), outer)
		inner := append([]string{qual}, outer...)
		body := n.ChildByFieldName("body")
		decls := firstNamed(body, "enum_body_declarations")

		class, types, fields := l.class, l.types, l.fields
		l.class = l.h.Type(qual)
		l.types = typeScope{pkg: l.f.pkg, imports: &l.f.imports, outer: inner}
		l.fields = make(map[string]*tree.Var)

		l.members(qual, body)
		l.members(qual, decls)

		l.class, l.types, l.fields = class, types, fields

		l.classes(body, inner)
		l.classes(decls, inner)
	}
}

func (l *lowerer) members(qual string, body *sitter.Node) {
	for m := range named(body) {
		switch m.Type() {
		case "method_declaration":
			if b := m.ChildByFieldName("body"); b != nil {
				l.root(qual+"."+l.f.text(m.ChildByFieldName("name")), m, m.ChildByFieldName("parameters"), b)
			}

		case "constructor_declaration", "compact_constructor_declaration":
			if b := m.ChildByFieldName("body"); b != nil {
				l.root(qual+".<init>", m, m.ChildByFieldName("parameters"), b)
			}

		case "static_initializer":
			if b := firstNamed(m, "block"); b != nil {
				l.root(qual+".<clinit>", m, nil, b)
			}

		case "block":
			l.root(qual+".<init>", m, nil, m)

		case "field_declaration":
			l.fieldInits(qual, m)
		}
	}
}

// root lowers one function root.
func (l *lowerer) root(name string, n, params, body *sitter.Node) {
	l.scope, l.seen = nil, make(map[string]*tree.Var)

	fn := l.function(n, params, body)
	fn.Name = name
	tree.Link(fn)

	l.roots = append(l.roots, fn)
}

// fieldInits lowers each initialized field into a root assigning the field.
func (l *lowerer) fieldInits(qual string, decl *sitter.Node) {
	for d := range named(decl) {
		id, value := d.ChildByFieldName("name"), d.ChildByFieldName("value")
		if d.Type() != "variable_declarator" || id == nil || value == nil {
			continue
		}

		l.scope, l.seen = nil, make(map[string]*tree.Var)
		l.push()

		fn := l.node(tree.KindFunc, d)
		fn.Name = qual + "." + l.f.text(id)

		assign := l.node(tree.KindAssign, d)
		assign.Lhs = l.ref(d, l.field(l.f.text(id)))
		assign.X = l.expr(value)

		fn.Body = l.node(tree.KindBlock, d)
		fn.Body.List = []*tree.Node{assign}

		l.pop()
		tree.Link(fn)

		l.roots = append(l.roots, fn)
	}
}

func (l *lowerer) push() { l.scope = &scope{parent: l.scope, vars: make(map[string]*tree.Var)} }

func (l *lowerer) pop() { l.scope = l.scope.parent }

func (l *lowerer) declare(name string, kind tree.VarKind, t tree.Type, pos token.Pos) *tree.Var {
	v := &tree.Var{Name: name, Kind: kind, Pos: pos, Type: t}
	l.scope.vars[name] = v

	if kind == tree.VarLocal {
		l.seen[name] = v
	}

	return v
}

// lookup finds a local or parameter. A local that is out of scope is still
// found by name, so a finally block can refer to a variable declared in its try body.
func (l *lowerer) lookup(name string) *tree.Var {
	for s := l.scope; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v
		}
	}

	return l.seen[name]
}

// field returns the variable for a field of the current or an enclosing class.
// Unknown fields are assumed to be inherited from classes outside the hierarchy.
func (l *lowerer) field(name string) *tree.Var {
	if v, ok := l.fields[name]; ok {
		return v
	}

	v := &tree.Var{Name: name, Kind: tree.VarField}

	for _, c := range l.types.outer {
		if t, ok := l.h.fieldType(l.h.Type(c), name); ok {
			v.Type = t

			break
		}
	}

	l.fields[name] = v

	return v
}

func (l *lowerer) isField(name string) bool {
	if _, ok := l.fields[name]; ok {
		return true
	}

	for _, c := range l.types.outer {
		if _, ok := l.h.fieldType(l.h.Type(c), name); ok {
			return true
		}
	}

	return false
}

func (l *lowerer) typeOf(n *sitter.Node) tree.Type {
	if n == nil {
		return nil
	}

	return l.h.Type(l.h.resolve(&l.types, l.f.text(n)))
}

func (l *lowerer) node(kind tree.Kind, n *sitter.Node) *tree.Node {
	return &tree.Node{Kind: kind, Pos: l.f.pos(n), End: l.f.end(n)}
}

func (l *lowerer) ref(n *sitter.Node, v *tree.Var) *tree.Node {
	r := l.node(tree.KindRef, n)
	r.Var, r.Name, r.Type = v, v.Name, v.Type

	return r
}

// function lowers a method, constructor, initializer or lambda.
func (l *lowerer) function(n, params, body *sitter.Node) *tree.Node {
	fn := l.node(tree.KindFunc, n)

	l.push()
	defer l.pop()

	l.params(params)

	switch {
	case body == nil:
		fn.Body = l.node(tree.KindBlock, n)

	case body.Type() == "block", body.Type() == "constructor_body":
		fn.Body = l.block(body)

	default: // expression lambda
		ret := l.node(tree.KindReturn, body)
		ret.List = []*tree.Node{l.expr(body)}
		fn.Body = l.node(tree.KindBlock, body)
		fn.Body.List = []*tree.Node{ret}
	}

	return fn
}

func (l *lowerer) params(n *sitter.Node) {
	if n == nil {
		return
	}

	if n.Type() == "identifier" {
		l.declare(l.f.text(n), tree.VarParam, nil, l.f.pos(n))

		return
	}

	for p := range named(n) {
		switch p.Type() {
		case "identifier":
			l.declare(l.f.text(p), tree.VarParam, nil, l.f.pos(p))

		case "formal_parameter":
			if id := p.ChildByFieldName("name"); id != nil {
				l.declare(l.f.text(id), tree.VarParam, l.typeOf(p.ChildByFieldName("type")), l.f.pos(id))
			}

		case "spread_parameter":
			if d := firstNamed(p, "variable_declarator"); d != nil {
				if id := d.ChildByFieldName("name"); id != nil {
					l.declare(l.f.text(id), tree.VarParam, nil, l.f.pos(id))
				}
			}
		}
	}
}

func (l *lowerer) block(n *sitter.Node) *tree.Node {
	b := l.node(tree.KindBlock, n)

	l.push()
	defer l.pop()

	for c := range named(n) {
		b.List = append(b.List, l.stmt(c)...)
	}

	return b
}

// body lowers the single statement of a branch or loop into a block.
func (l *lowerer) body(n *sitter.Node) *tree.Node {
	if n == nil {
		return &tree.Node{Kind: tree.KindBlock}
	}

	if n.Type() == "block" {
		return l.block(n)
	}

	b := l.node(tree.KindBlock, n)

	l.push()
	b.List = l.stmt(n)
	l.pop()

	return b
}

func (l *lowerer) stmt(n *sitter.Node) []*tree.Node {
	switch n.Type() {
	case "line_comment", "block_comment", "switch_label":
		return nil

	case "block":
		return []*tree.Node{l.block(n)}

	case "local_variable_declaration":
		return l.localVars(n)

	case "expression_statement":
		x := n.NamedChild(0)
		if x == nil {
			return nil
		}

		if x.Type() == "assignment_expression" {
			if a := l.assign(x); a.Kind == tree.KindAssign {
				a.Pos, a.End = l.f.pos(n), l.f.end(n)

				return []*tree.Node{a}
			}
		}

		s := l.node(tree.KindExprStmt, n)
		s.X = l.expr(x)

		return []*tree.Node{s}

	case "if_statement":
		s := l.node(tree.KindIf, n)
		s.X = l.expr(n.ChildByFieldName("condition"))
		s.Then = l.body(n.ChildByFieldName("consequence"))

		if alt := n.ChildByFieldName("alternative"); alt != nil {
			s.Else = l.body(alt)
		}

		return []*tree.Node{s}

	case "while_statement", "do_statement":
		s := l.node(tree.KindLoop, n)
		if n.Type() == "do_statement" {
			s.Body = l.body(n.ChildByFieldName("body"))
			s.X = l.expr(n.ChildByFieldName("condition"))
		} else {
			s.X = l.expr(n.ChildByFieldName("condition"))
			s.Body = l.body(n.ChildByFieldName("body"))
		}

		return []*tree.Node{s}

	case "for_statement":
		return []*tree.Node{l.forStmt(n)}

	case "enhanced_for_statement":
		return []*tree.Node{l.forEach(n)}

	case "try_statement", "try_with_resources_statement":
		return []*tree.Node{l.try(n)}

	case "return_statement":
		s := l.node(tree.KindReturn, n)
		if x := firstExpr(n); x != nil {
			s.List = []*tree.Node{l.expr(x)}
		}

		return []*tree.Node{s}

	case "throw_statement":
		s := l.node(tree.KindThrow, n)
		if x := firstExpr(n); x != nil {
			s.X = l.expr(x)
		}

		return []*tree.Node{s}

	case "synchronized_statement":
		s := l.node(tree.KindBlock, n)
		if lock := firstNamed(n, "parenthesized_expression"); lock != nil {
			x := l.node(tree.KindExprStmt, lock)
			x.X = l.expr(lock)
			s.List = append(s.List, x)
		}

		if b := n.ChildByFieldName("body"); b != nil {
			s.List = append(s.List, l.block(b))
		}

		return []*tree.Node{s}

	case "switch_expression", "switch_statement":
		return []*tree.Node{l.switchNode(n)}

	case "break_statement", "continue_statement":
		s := l.node(tree.KindOther, n)
		switch {
		case firstNamed(n, "identifier") != nil:
			s.Name = tree.NameJump

		case n.Type() == "break_statement":
			s.Name = tree.NameBreak

		default:
			s.Name = tree.NameContinue
		}

		return []*tree.Node{s}

	case "yield_statement":
		s := l.other(n)
		s.Name = tree.NameBreak

		return []*tree.Node{s}

	case "labeled_statement":
		var out []*tree.Node
		for c := range named(n) {
			if c.Type() != "identifier" {
				out = append(out, l.stmt(c)...)
			}
		}

		return out

	case "explicit_constructor_invocation":
		s := l.node(tree.KindExprStmt, n)
		c := l.node(tree.KindCall, n)
		c.Name = "super"

		if ctor := n.ChildByFieldName("constructor"); ctor != nil {
			c.Name = l.f.text(ctor)
		}

		c.List = l.args(n.ChildByFieldName("arguments"))
		s.X = c

		return []*tree.Node{s}

	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		s := l.node(tree.KindOther, n)
		s.Name = "class"
		s.List = l.nested(n.ChildByFieldName("body"))

		return []*tree.Node{s}

	default:
		return []*tree.Node{l.other(n)}
	}
}

// firstExpr returns the first named child that is not a comment.
func firstExpr(n *sitter.Node) *sitter.Node {
	for c := range named(n) {
		if !isComment(c) {
			return c
		}
	}

	return nil
}

func isComment(n *sitter.Node) bool {
	switch n.Type() {
	case "line_comment", "block_comment":
		return true
	}

	return false
}

func (l *lowerer) localVars(n *sitter.Node) []*tree.Node {
	typ := n.ChildByFieldName("type")

	var decls []*sitter.Node
	for d := range named(n) {
		if d.Type() == "variable_declarator" {
			decls = append(decls, d)
		}
	}

	out := make([]*tree.Node, 0, len(decls))
	for _, d := range decls {
		span := d
		if len(decls) == 1 {
			span = n
		}

		s := l.node(tree.KindDecl, span)
		if value := d.ChildByFieldName("value"); value != nil {
			s.X = l.expr(value)
		}

		t := l.typeOf(typ)
		if typ != nil && l.f.text(typ) == "var" && s.X != nil {
			t = s.X.Type
		}

		if id := d.ChildByFieldName("name"); id != nil {
			s.Var = l.declare(l.f.text(id), tree.VarLocal, t, s.Pos)
		}

		out = append(out, s)
	}

	return out
}

func (l *lowerer) forStmt(n *sitter.Node) *tree.Node {
	l.push()
	defer l.pop()

	outer := l.node(tree.KindBlock, n)
	loop := l.node(tree.KindLoop, n)

	for i := range int(n.ChildCount()) {
		c := n.Child(i)

		switch n.FieldNameForChild(i) {
		case "init":
			if c.Type() == "local_variable_declaration" {
				outer.List = append(outer.List, l.localVars(c)...)
			} else {
				s := l.node(tree.KindExprStmt, c)
				s.X = l.expr(c)
				outer.List = append(outer.List, s)
			}

		case "condition":
			loop.X = l.expr(c)

		case "update":
			loop.List = append(loop.List, l.expr(c))

		case "body":
			loop.Body = l.body(c)
		}
	}

	if loop.Body == nil {
		loop.Body = l.node(tree.KindBlock, n)
	}

	if len(outer.List) == 0 {
		return loop
	}

	outer.List = append(outer.List, loop)

	return outer
}

func (l *lowerer) forEach(n *sitter.Node) *tree.Node {
	loop := l.node(tree.KindLoop, n)
	loop.X = l.expr(n.ChildByFieldName("value"))

	l.push()
	defer l.pop()

	body := l.node(tree.KindBlock, n)

	if id := n.ChildByFieldName("name"); id != nil {
		d := l.node(tree.KindDecl, id)
		d.Var = l.declare(l.f.text(id), tree.VarLocal, l.typeOf(n.ChildByFieldName("type")), d.Pos)
		body.List = append(body.List, d)
	}

	if b := n.ChildByFieldName("body"); b != nil {
		body.List = append(body.List, l.body(b))
	}

	loop.Body = body

	return loop
}

func (l *lowerer) try(n *sitter.Node) *tree.Node {
	t := l.node(tree.KindTry, n)

	l.push()
	defer l.pop()

	for r := range named(n.ChildByFieldName("resources")) {
		if r.Type() == "resource" {
			t.Resources = append(t.Resources, l.resource(r))
		}
	}

	if b := n.ChildByFieldName("body"); b != nil {
		t.Body = l.block(b)
	} else {
		t.Body = l.node(tree.KindBlock, n)
	}

	for c := range named(n) {
		switch c.Type() {
		case "catch_clause":
			t.Catches = append(t.Catches, l.catchClause(c))

		case "finally_clause":
			if b := firstNamed(c, "block"); b != nil {
				t.Finally = l.block(b)
			}
		}
	}

	return t
}

func (l *lowerer) resource(r *sitter.Node) *tree.Node {
	id := r.ChildByFieldName("name")
	if id == nil {
		s := l.node(tree.KindExprStmt, r)
		if x := firstExpr(r); x != nil {
			s.X = l.expr(x)
		}

		return s
	}

	d := l.node(tree.KindDecl, r)
	if value := r.ChildByFieldName("value"); value != nil {
		d.X = l.expr(value)
	}

	t := l.typeOf(r.ChildByFieldName("type"))
	if typ := r.ChildByFieldName("type"); typ != nil && l.f.text(typ) == "var" && d.X != nil {
		t = d.X.Type
	}

	d.Var = l.declare(l.f.text(id), tree.VarLocal, t, d.Pos)

	return d
}

func (l *lowerer) catchClause(c *sitter.Node) *tree.Node {
	l.push()
	defer l.pop()

	if p := firstNamed(c, "catch_formal_parameter"); p != nil {
		if id := p.ChildByFieldName("name"); id != nil {
			var t tree.Type
			if ct := firstNamed(p, "catch_type"); ct != nil {
				t = l.typeOf(ct.NamedChild(0))
			}

			l.declare(l.f.text(id), tree.VarLocal, t, l.f.pos(id))
		}
	}

	if b := c.ChildByFieldName("body"); b != nil {
		return l.block(b)
	}

	return l.node(tree.KindBlock, c)
}

// switchNode lowers a switch into an opaque node with one block per case.
func (l *lowerer) switchNode(n *sitter.Node) *tree.Node {
	s := l.node(tree.KindOther, n)
	s.Name = tree.NameSwitch

	if cond := n.ChildByFieldName("condition"); cond != nil {
		s.X = l.expr(cond)
	}

	for g := range named(n.ChildByFieldName("body")) {
		switch g.Type() {
		case "switch_block_statement_group", "switch_rule":
			b := l.node(tree.KindBlock, g)

			l.push()
			for c := range named(g) {
				if g.Type() == "switch_rule" && c.Type() != "switch_label" && !isStmt(c.Type()) {
					// case x -> expression
					x := l.node(tree.KindExprStmt, c)
					x.X = l.expr(c)
					b.List = append(b.List, x)

					continue
				}

				b.List = append(b.List, l.stmt(c)...)
			}
			l.pop()

			s.List = append(s.List, b)
		}
	}

	return s
}

// nested lowers the methods and initializers of a local or anonymous class
// into functions nested in the current root.
func (l *lowerer) nested(body *sitter.Node) []*tree.Node {
	var fns []*tree.Node

	for m := range named(body) {
		switch m.Type() {
		case "method_declaration", "constructor_declaration":
			if b := m.ChildByFieldName("body"); b != nil {
				fn := l.function(m, m.ChildByFieldName("parameters"), b)
				if id := m.ChildByFieldName("name"); id != nil {
					fn.Name = l.f.text(id)
				}

				fns = append(fns, fn)
			}

		case "block":
			fns = append(fns, l.function(m, nil, m))

		case "field_declaration":
			for d := range named(m) {
				if value := d.ChildByFieldName("value"); d.Type() == "variable_declarator" && value != nil {
					fn := l.function(d, nil, value)
					fns = append(fns, fn)
				}
			}
		}
	}

	return fns
}

func isStmt(kind string) bool {
	switch kind {
	case "block", "local_variable_declaration", "expression_statement", "throw_statement",
		"class_declaration", "explicit_constructor_invocation", "labeled_statement":
		return true
	}

	return strings.HasSuffix(kind, "_statement")
}

func (l *lowerer) expr(n *sitter.Node) *tree.Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "parenthesized_expression":
		p := l.node(tree.KindParen, n)
		if x := firstExpr(n); x != nil {
			p.X = l.expr(x)
			p.Type = p.X.Type
		}

		return p

	case "cast_expression":
		p := l.node(tree.KindParen, n)
		p.X = l.expr(n.ChildByFieldName("value"))
		p.Type = l.typeOf(n.ChildByFieldName("type"))

		return p

	case "identifier":
		return l.ident(n)

	case "this":
		o := l.node(tree.KindOther, n)
		o.Name, o.Type = "this", l.class

		return o

	case "super":
		o := l.node(tree.KindOther, n)
		o.Name = "super"

		if c, ok := l.class.(*Class); ok && len(c.supers) > 0 {
			o.Type = l.h.Type(c.supers[0])
		}

		return o

	case "field_access":
		return l.fieldAccess(n)

	case "method_invocation":
		return l.call(n)

	case "object_creation_expression":
		return l.newExpr(n)

	case "assignment_expression":
		return l.assign(n)

	case "lambda_expression":
		fn := l.function(n, n.ChildByFieldName("parameters"), n.ChildByFieldName("body"))
		fn.Name = "lambda"

		return fn

	case "switch_expression":
		return l.switchNode(n)

	case "ternary_expression":
		o := l.other(n)
		o.Name = tree.NameConditional

		return o

	case "array_initializer", "array_creation_expression":
		o := l.other(n)
		o.Name = tree.NameComposite

		return o

	case "null_literal":
		o := l.node(tree.KindOther, n)
		o.Name = "null"

		return o

	default:
		return l.other(n)
	}
}

// other lowers a construct without special meaning, keeping its operands.
func (l *lowerer) other(n *sitter.Node) *tree.Node {
	o := l.node(tree.KindOther, n)

	for c := range named(n) {
		switch {
		case isComment(c):

		case isStmt(c.Type()):
			b := l.node(tree.KindBlock, c)
			b.List = l.stmt(c)
			o.List = append(o.List, b)

		default:
			o.List = append(o.List, l.expr(c))
		}
	}

	return o
}

func (l *lowerer) ident(n *sitter.Node) *tree.Node {
	name := l.f.text(n)

	if v := l.lookup(name); v != nil {
		return l.ref(n, v)
	}

	if l.isField(name) || isLower(name) {
		return l.ref(n, l.field(name))
	}

	// A class used as qualifier of a static member.
	o := l.node(tree.KindOther, n)
	o.Name, o.Type = name, l.h.Type(l.h.resolve(&l.types, name))

	return o
}

func (l *lowerer) fieldAccess(n *sitter.Node) *tree.Node {
	obj, id := n.ChildByFieldName("object"), n.ChildByFieldName("field")
	if obj == nil || id == nil {
		return l.other(n)
	}

	name := l.f.text(id)

	if obj.Type() == "this" {
		return l.ref(n, l.field(name))
	}

	if c, ok := l.h.Lookup(cleanType(l.f.text(n))); ok {
		o := l.node(tree.KindOther, n)
		o.Name, o.Type = c.simple, c

		return o
	}

	s := l.node(tree.KindSelector, n)
	s.Recv, s.Name = l.expr(obj), name
	s.Type, _ = l.h.fieldType(s.Recv.Type, name)

	return s
}

func (l *lowerer) call(n *sitter.Node) *tree.Node {
	c := l.node(tree.KindCall, n)

	id := n.ChildByFieldName("name")
	if id != nil {
		c.Name = l.f.text(id)
	}

	if obj := n.ChildByFieldName("object"); obj != nil {
		c.Recv = l.expr(obj)
	} else {
		// Unqualified calls go to this.
		span := n
		if id != nil {
			span = id
		}

		c.Recv = l.node(tree.KindOther, span)
		c.Recv.Name, c.Recv.Type = "this", l.class
	}

	c.List = l.args(n.ChildByFieldName("arguments"))

	recv := c.Recv.Type
	if c.Recv.Name == "this" && c.Recv.Kind == tree.KindOther {
		if class, ok := l.f.imports.static[c.Name]; ok && l.h.methodType(l.class, c.Name) == nil {
			recv = l.h.Type(class)
		}
	}

	c.Type = l.h.methodType(recv, c.Name)

	if recv != nil {
		c.Callee = recv.Name() + "." + c.Name
	} else {
		c.Callee = c.Name
	}

	return c
}

func (l *lowerer) args(n *sitter.Node) []*tree.Node {
	var args []*tree.Node

	for a := range named(n) {
		if !isComment(a) {
			args = append(args, l.expr(a))
		}
	}

	return args
}

func (l *lowerer) newExpr(n *sitter.Node) *tree.Node {
	x := l.node(tree.KindNew, n)
	x.Type = l.typeOf(n.ChildByFieldName("type"))

	if x.Type != nil {
		x.Name = x.Type.Name()
	}

	x.List = l.args(n.ChildByFieldName("arguments"))

	if body := firstNamed(n, "class_body"); body != nil {
		x.List = append(x.List, l.nested(body)...)
	}

	return x
}

func (l *lowerer) assign(n *sitter.Node) *tree.Node {
	left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")

	if op := n.ChildByFieldName("operator"); op == nil || op.Type() != "=" {
		o := l.node(tree.KindOther, n)
		o.List = []*tree.Node{l.expr(left), l.expr(right)}

		return o
	}

	a := l.node(tree.KindAssign, n)
	a.Lhs, a.X = l.expr(left), l.expr(right)

	return a
}
