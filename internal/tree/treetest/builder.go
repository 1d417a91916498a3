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

// Package treetest builds program trees for tests.
package treetest

import (
	"go/token"
	"strings"
	"sync/atomic"

	"fillmore-labs.com/closeguard/internal/tree"
)

var pos atomic.Int64

func node(kind tree.Kind) *tree.Node {
	p := token.Pos(pos.Add(2))

	return &tree.Node{Kind: kind, Pos: p, End: p + 1}
}

// Class is a named type with explicit supertypes.
type Class struct {
	name   string
	supers []tree.Type
}

// NewClass creates a [Class] with a qualified name.
func NewClass(name string, supers ...tree.Type) *Class {
	return &Class{name: name, supers: supers}
}

func (c *Class) Name() string { return c.name }

func (c *Class) Presentable() string { return c.name[strings.LastIndexByte(c.name, '.')+1:] }

func (c *Class) Supertypes() []tree.Type { return c.supers }

// Local creates a local variable.
func Local(name string, t tree.Type) *tree.Var {
	return &tree.Var{Name: name, Kind: tree.VarLocal, Type: t}
}

// Param creates a parameter.
func Param(name string, t tree.Type) *tree.Var {
	return &tree.Var{Name: name, Kind: tree.VarParam, Type: t}
}

// Result creates a named result.
func Result(name string, t tree.Type) *tree.Var {
	return &tree.Var{Name: name, Kind: tree.VarResult, Type: t}
}

// Field creates a field.
func Field(name string, t tree.Type) *tree.Var {
	return &tree.Var{Name: name, Kind: tree.VarField, Type: t}
}

// Func creates a linked function root with the given body statements.
func Func(stmts ...*tree.Node) *tree.Node {
	f := Lambda(stmts...)
	f.Name = "test"
	tree.Link(f)

	return f
}

// Lambda creates a nested function.
func Lambda(stmts ...*tree.Node) *tree.Node {
	f := node(tree.KindFunc)
	f.Body = Block(stmts...)

	return f
}

func Block(stmts ...*tree.Node) *tree.Node {
	b := node(tree.KindBlock)
	b.List = stmts

	return b
}

// Try creates a try region, finally may be nil.
func Try(body, finally *tree.Node, catches ...*tree.Node) *tree.Node {
	t := node(tree.KindTry)
	t.Body, t.Finally, t.Catches = body, finally, catches

	return t
}

// TryWith creates a try-with-resources region.
func TryWith(resources []*tree.Node, body *tree.Node) *tree.Node {
	t := Try(body, nil)
	t.Resources = resources

	return t
}

func If(cond, then, els *tree.Node) *tree.Node {
	n := node(tree.KindIf)
	n.X, n.Then, n.Else = cond, then, els

	return n
}

func Loop(cond, body *tree.Node) *tree.Node {
	n := node(tree.KindLoop)
	n.X, n.Body = cond, body

	return n
}

func Guard(cond, then *tree.Node) *tree.Node {
	n := node(tree.KindGuard)
	n.X, n.Then = cond, then

	return n
}

func Return(results ...*tree.Node) *tree.Node {
	n := node(tree.KindReturn)
	n.List = results

	return n
}

func Throw(x *tree.Node) *tree.Node {
	n := node(tree.KindThrow)
	n.X = x

	return n
}

func Decl(v *tree.Var, x *tree.Node) *tree.Node {
	n := node(tree.KindDecl)
	n.Var, n.X = v, x
	v.Pos = n.Pos

	return n
}

func Assign(lhs, x *tree.Node) *tree.Node {
	n := node(tree.KindAssign)
	n.Lhs, n.X = lhs, x

	return n
}

func Expr(x *tree.Node) *tree.Node {
	n := node(tree.KindExprStmt)
	n.X = x

	return n
}

// Call creates a method call on recv.
func Call(recv *tree.Node, name string, args ...*tree.Node) *tree.Node {
	n := node(tree.KindCall)
	n.Recv, n.Name, n.List = recv, name, args

	return n
}

// Static creates a call of a qualified function.
func Static(callee string, args ...*tree.Node) *tree.Node {
	n := Call(nil, callee[strings.LastIndexByte(callee, '.')+1:], args...)
	n.Callee = callee

	return n
}

func New(t tree.Type, args ...*tree.Node) *tree.Node {
	n := node(tree.KindNew)
	n.Name, n.Type, n.List = t.Name(), t, args

	return n
}

func Ref(v *tree.Var) *tree.Node {
	n := node(tree.KindRef)
	n.Var, n.Name, n.Type = v, v.Name, v.Type

	return n
}

func Sel(recv *tree.Node, name string) *tree.Node {
	n := node(tree.KindSelector)
	n.Recv, n.Name = recv, name

	return n
}

func Paren(x *tree.Node) *tree.Node {
	n := node(tree.KindParen)
	n.X = x

	return n
}

func Other(children ...*tree.Node) *tree.Node {
	n := node(tree.KindOther)
	n.List = children

	return n
}

// Named creates an opaque node tagged with name, like [tree.NameComposite].
func Named(name string, children ...*tree.Node) *tree.Node {
	n := Other(children...)
	n.Name = name

	return n
}

// Close creates the statement v.close().
func Close(v *tree.Var) *tree.Node {
	return Expr(Call(Ref(v), "close"))
}
