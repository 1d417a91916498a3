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

// Package gotree lowers type-checked Go functions into the program tree.
//
// A defer statement becomes a try region: its body holds the statements following
// the defer in the same block, its finally block the deferred call, or the body of
// a deferred function literal. An error check ending in a return or a call that
// cannot return becomes a guard.
package gotree

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"fillmore-labs.com/closeguard/internal/tree"
)

// Func lowers the function declaration fn into a linked program tree.
func Func(info *types.Info, fn *ast.FuncDecl) *tree.Node {
	l := lowerer{info: info, vars: make(map[*types.Var]*tree.Var)}

	l.params(fn.Recv, tree.VarParam)
	l.params(fn.Type.Params, tree.VarParam)
	l.params(fn.Type.Results, tree.VarResult)

	root := l.node(tree.KindFunc, fn)
	root.Name = fn.Name.Name
	root.Body = l.block(fn.Body)

	tree.Link(root)

	return root
}

type lowerer struct {
	info *types.Info
	vars map[*types.Var]*tree.Var
}

func (l *lowerer) node(kind tree.Kind, n ast.Node) *tree.Node {
	return &tree.Node{Kind: kind, Pos: n.Pos(), End: n.End()}
}

func (l *lowerer) params(fields *ast.FieldList, kind tree.VarKind) {
	if fields == nil {
		return
	}

	for _, field := range fields.List {
		for _, name := range field.Names {
			if v, ok := l.info.Defs[name].(*types.Var); ok {
				l.vars[v] = &tree.Var{Name: v.Name(), Kind: kind, Pos: v.Pos(), Type: typeOf(v.Type())}
			}
		}
	}
}

func (l *lowerer) variable(v *types.Var) *tree.Var {
	if tv, ok := l.vars[v]; ok {
		return tv
	}

	kind := tree.VarLocal
	if v.IsField() || v.Pkg() != nil && v.Parent() == v.Pkg().Scope() {
		kind = tree.VarField
	}

	tv := &tree.Var{Name: v.Name(), Kind: kind, Pos: v.Pos(), Type: typeOf(v.Type())}
	l.vars[v] = tv

	return tv
}

func (l *lowerer) block(b *ast.BlockStmt) *tree.Node {
	if b == nil {
		return &tree.Node{Kind: tree.KindBlock}
	}

	return l.stmts(b.List, b.Pos(), b.End())
}

func (l *lowerer) stmts(list []ast.Stmt, pos, end token.Pos) *tree.Node {
	blk := &tree.Node{Kind: tree.KindBlock, Pos: pos, End: end}

	for i, s := range list {
		if d, ok := s.(*ast.DeferStmt); ok {
			try := &tree.Node{Kind: tree.KindTry, Pos: d.Pos(), End: end}
			try.Finally = l.deferred(d)
			try.Body = l.stmts(list[i+1:], d.End(), end)
			blk.List = append(blk.List, try)

			break
		}

		blk.List = append(blk.List, l.stmt(s)...)
	}

	return blk
}

func (l *lowerer) deferred(d *ast.DeferStmt) *tree.Node {
	if lit, ok := ast.Unparen(d.Call.Fun).(*ast.FuncLit); ok && len(d.Call.Args) == 0 {
		return l.block(lit.Body)
	}

	blk := l.node(tree.KindBlock, d)
	blk.List = []*tree.Node{l.exprStmt(d.Call)}

	return blk
}

func (l *lowerer) stmt(s ast.Stmt) []*tree.Node {
	switch s := s.(type) {
	case *ast.BlockStmt:
		return []*tree.Node{l.block(s)}

	case *ast.ExprStmt:
		return []*tree.Node{l.exprStmt(s.X)}

	case *ast.AssignStmt:
		return l.assign(s)

	case *ast.DeclStmt:
		return l.decl(s)

	case *ast.ReturnStmt:
		n := l.node(tree.KindReturn, s)
		n.List = l.exprs(s.Results)

		return []*tree.Node{n}

	case *ast.IfStmt:
		return []*tree.Node{l.ifStmt(s)}

	case *ast.ForStmt:
		body := l.block(s.Body)
		if s.Post != nil {
			body.List = append(body.List, l.stmt(s.Post)...)
		}

		loop := l.node(tree.KindLoop, s)
		loop.X, loop.Body = l.expr(s.Cond), body

		return l.withInit(s, s.Init, loop)

	case *ast.RangeStmt:
		loop := l.node(tree.KindLoop, s)
		loop.X, loop.Body = l.expr(s.X), l.block(s.Body)

		return []*tree.Node{loop}

	case *ast.SwitchStmt:
		n := l.clauses(s, s.Body, l.exprStmt(s.Tag))

		return l.withInit(s, s.Init, n)

	case *ast.TypeSwitchStmt:
		n := l.clauses(s, s.Body, l.stmt(s.Assign)...)

		return l.withInit(s, s.Init, n)

	case *ast.SelectStmt:
		return []*tree.Node{l.clauses(s, s.Body)}

	case *ast.LabeledStmt:
		return l.stmt(s.Stmt)

	case *ast.GoStmt:
		return []*tree.Node{l.exprStmt(s.Call)}

	case *ast.DeferStmt: // not directly in a block, i.e. labeled
		n := l.node(tree.KindOther, s)
		n.List = []*tree.Node{l.deferred(s)}

		return []*tree.Node{n}

	case *ast.SendStmt:
		n := l.node(tree.KindOther, s)
		n.List = []*tree.Node{l.expr(s.Chan), l.expr(s.Value)}

		return []*tree.Node{n}

	case *ast.IncDecStmt:
		n := l.node(tree.KindOther, s)
		n.List = []*tree.Node{l.expr(s.X)}

		return []*tree.Node{n}

	case *ast.BranchStmt:
		n := l.node(tree.KindOther, s)
		switch {
		case s.Tok == token.FALLTHROUGH:

		case s.Label != nil, s.Tok == token.GOTO:
			n.Name = tree.NameJump

		case s.Tok == token.BREAK:
			n.Name = tree.NameBreak

		default:
			n.Name = tree.NameContinue
		}

		return []*tree.Node{n}

	case nil:
		return nil

	default:
		return []*tree.Node{l.node(tree.KindOther, s)}
	}
}

// withInit prepends the lowered init statement, wrapping both into a block.
func (l *lowerer) withInit(s, init ast.Stmt, n *tree.Node) []*tree.Node {
	if init == nil {
		return []*tree.Node{n}
	}

	blk := l.node(tree.KindBlock, s)
	blk.List = append(l.stmt(init), n)

	return []*tree.Node{blk}
}

// clauses lowers the clauses of a switch or select statement as alternatives, each with its own block.
func (l *lowerer) clauses(s ast.Stmt, body *ast.BlockStmt, head ...*tree.Node) *tree.Node {
	n := l.node(tree.KindOther, s)
	n.Name, n.List = tree.NameSwitch, head

	for _, c := range body.List {
		var blk *tree.Node
		switch c := c.(type) {
		case *ast.CaseClause:
			blk = l.stmts(c.Body, c.Colon, c.End())
			for _, x := range c.List {
				n.List = append(n.List, l.expr(x))
			}

		case *ast.CommClause:
			blk = l.stmts(c.Body, c.Colon, c.End())
			blk.List = append(l.stmt(c.Comm), blk.List...)

		default:
			continue
		}

		n.List = append(n.List, blk)
	}

	return n
}

func (l *lowerer) exprStmt(x ast.Expr) *tree.Node {
	if x == nil {
		return nil
	}

	n := l.node(tree.KindExprStmt, x)
	n.X = l.expr(x)

	return n
}

func (l *lowerer) assign(s *ast.AssignStmt) []*tree.Node {
	if len(s.Lhs) != len(s.Rhs) { // v, err := f()
		return []*tree.Node{l.assign1(s, s.Lhs[0], s.Rhs[0])}
	}

	nodes := make([]*tree.Node, 0, len(s.Lhs))
	for i, lhs := range s.Lhs {
		nodes = append(nodes, l.assign1(s, lhs, s.Rhs[i]))
	}

	return nodes
}

func (l *lowerer) assign1(s *ast.AssignStmt, lhs, rhs ast.Expr) *tree.Node {
	if id, ok := lhs.(*ast.Ident); ok && s.Tok == token.DEFINE {
		if v, ok := l.info.Defs[id].(*types.Var); ok {
			n := l.node(tree.KindDecl, s)
			n.Var, n.X = l.variable(v), l.expr(rhs)

			return n
		}
	}

	n := l.node(tree.KindAssign, s)
	n.Lhs, n.X = l.expr(lhs), l.expr(rhs)

	return n
}

func (l *lowerer) decl(s *ast.DeclStmt) []*tree.Node {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return []*tree.Node{l.node(tree.KindOther, s)}
	}

	var nodes []*tree.Node
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}

		for i, name := range vs.Names {
			v, ok := l.info.Defs[name].(*types.Var)
			if !ok {
				continue
			}

			n := l.node(tree.KindDecl, vs)
			n.Var = l.variable(v)

			switch {
			case len(vs.Values) == len(vs.Names):
				n.X = l.expr(vs.Values[i])

			case i == 0 && len(vs.Values) == 1: // var v, err = f()
				n.X = l.expr(vs.Values[0])
			}

			nodes = append(nodes, n)
		}
	}

	return nodes
}

func (l *lowerer) ifStmt(s *ast.IfStmt) *tree.Node {
	if l.isGuard(s) {
		n := l.node(tree.KindGuard, s)
		n.X, n.Then = l.expr(s.Cond), l.block(s.Body)

		return n
	}

	n := l.node(tree.KindIf, s)
	n.X, n.Then = l.expr(s.Cond), l.block(s.Body)

	if s.Else != nil {
		n.Else = l.single(s.Else)
	}

	return l.withInit(s, s.Init, n)[0]
}

func (l *lowerer) single(s ast.Stmt) *tree.Node {
	nodes := l.stmt(s)
	if len(nodes) == 1 {
		return nodes[0]
	}

	blk := l.node(tree.KindBlock, s)
	blk.List = nodes

	return blk
}

func (l *lowerer) exprs(list []ast.Expr) []*tree.Node {
	nodes := make([]*tree.Node, 0, len(list))
	for _, x := range list {
		nodes = append(nodes, l.expr(x))
	}

	return nodes
}

func (l *lowerer) expr(x ast.Expr) *tree.Node {
	if x == nil {
		return nil
	}

	n := l.expr1(x)
	n.Pos, n.End = x.Pos(), x.End()

	if n.Type == nil {
		n.Type = typeOf(l.info.TypeOf(x))
	}

	return n
}

func (l *lowerer) expr1(x ast.Expr) *tree.Node {
	switch x := x.(type) {
	case *ast.ParenExpr:
		return &tree.Node{Kind: tree.KindParen, X: l.expr(x.X)}

	case *ast.TypeAssertExpr:
		return &tree.Node{Kind: tree.KindParen, X: l.expr(x.X)}

	case *ast.Ident:
		if v, ok := l.info.ObjectOf(x).(*types.Var); ok {
			return &tree.Node{Kind: tree.KindRef, Name: x.Name, Var: l.variable(v)}
		}

		return &tree.Node{Kind: tree.KindOther, Name: x.Name}

	case *ast.SelectorExpr:
		if sel, ok := l.info.Selections[x]; ok {
			kind := tree.KindOther
			if sel.Kind() == types.FieldVal {
				kind = tree.KindSelector
			}

			return &tree.Node{Kind: kind, Recv: l.expr(x.X), Name: x.Sel.Name}
		}

		if v, ok := l.info.Uses[x.Sel].(*types.Var); ok { // package-qualified variable
			return &tree.Node{Kind: tree.KindRef, Name: x.Sel.Name, Var: l.variable(v)}
		}

		return &tree.Node{Kind: tree.KindOther, Name: x.Sel.Name}

	case *ast.CallExpr:
		return l.call(x)

	case *ast.FuncLit:
		l.params(x.Type.Params, tree.VarParam)
		l.params(x.Type.Results, tree.VarResult)

		return &tree.Node{Kind: tree.KindFunc, Name: "func", Body: l.block(x.Body)}

	case *ast.CompositeLit:
		n := &tree.Node{Kind: tree.KindOther, Name: tree.NameComposite}
		for _, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				elt = kv.Value
			}

			n.List = append(n.List, l.expr(elt))
		}

		return n

	case *ast.StarExpr:
		return &tree.Node{Kind: tree.KindOther, List: []*tree.Node{l.expr(x.X)}}

	case *ast.UnaryExpr:
		n := &tree.Node{Kind: tree.KindOther, List: []*tree.Node{l.expr(x.X)}}
		if x.Op == token.AND {
			n.Name = tree.NameAddress
		}

		return n

	case *ast.BinaryExpr:
		return &tree.Node{Kind: tree.KindOther, List: []*tree.Node{l.expr(x.X), l.expr(x.Y)}}

	case *ast.IndexExpr:
		return &tree.Node{Kind: tree.KindOther, List: []*tree.Node{l.expr(x.X), l.expr(x.Index)}}

	case *ast.SliceExpr:
		return &tree.Node{Kind: tree.KindOther, List: []*tree.Node{l.expr(x.X), l.expr(x.Low), l.expr(x.High), l.expr(x.Max)}}

	default:
		return &tree.Node{Kind: tree.KindOther}
	}
}

func (l *lowerer) call(x *ast.CallExpr) *tree.Node {
	if tv, ok := l.info.Types[x.Fun]; ok && tv.IsType() && len(x.Args) == 1 { // conversion
		return &tree.Node{Kind: tree.KindParen, X: l.expr(x.Args[0])}
	}

	n := &tree.Node{Kind: tree.KindCall, List: l.exprs(x.Args)}

	switch fn := typeutil.Callee(l.info, x).(type) {
	case *types.Func:
		n.Name, n.Callee = fn.Name(), FuncNameOf(fn).String()

	case *types.Builtin:
		n.Name = fn.Name()
	}

	if sel, ok := ast.Unparen(x.Fun).(*ast.SelectorExpr); ok {
		if s, ok := l.info.Selections[sel]; ok && s.Kind() == types.MethodVal {
			n.Recv = l.expr(sel.X)

			return n
		}
	}

	if n.Name == "" { // function value
		n.List = append(n.List, l.expr(x.Fun))
	}

	return n
}

// isGuard reports whether s is an error check leaving the block, like
//
//	if err != nil {
//		return err
//	}
func (l *lowerer) isGuard(s *ast.IfStmt) bool {
	if s.Init != nil || s.Else != nil || !l.terminates(s.Body) {
		return false
	}

	cond, ok := ast.Unparen(s.Cond).(*ast.BinaryExpr)
	if !ok || cond.Op != token.NEQ {
		return false
	}

	return l.isNil(cond.Y) && l.isError(cond.X) || l.isNil(cond.X) && l.isError(cond.Y)
}

func (l *lowerer) terminates(b *ast.BlockStmt) bool {
	if len(b.List) == 0 {
		return false
	}

	switch s := b.List[len(b.List)-1].(type) {
	case *ast.ReturnStmt, *ast.BranchStmt:
		return true

	case *ast.ExprStmt:
		call, ok := s.X.(*ast.CallExpr)

		return ok && cantReturn(l.info, call)

	default:
		return false
	}
}

func (l *lowerer) isNil(x ast.Expr) bool {
	id, ok := ast.Unparen(x).(*ast.Ident)
	if !ok {
		return false
	}

	_, ok = l.info.Uses[id].(*types.Nil)

	return ok
}

var errorType = types.Universe.Lookup("error").Type()

func (l *lowerer) isError(x ast.Expr) bool {
	t := l.info.TypeOf(x)

	return t != nil && types.Identical(t, errorType)
}
