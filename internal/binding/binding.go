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

// Package binding determines where the result of an acquisition ends up.
package binding

import "fillmore-labs.com/closeguard/internal/tree"

// Kind classifies a [Binding].
type Kind uint8

const (
	// Unbound means nothing holds the result: it is chained, discarded or passed on.
	Unbound Kind = iota
	// Returned means the result is returned directly to the caller.
	Returned
	// Bound means the result is assigned to, or initializes, a variable.
	Bound
	// Stored means the result is assigned into object state.
	Stored
)

func (k Kind) String() string {
	switch k {
	case Unbound:
		return "unbound"
	case Returned:
		return "returned"
	case Bound:
		return "bound"
	case Stored:
		return "stored"
	default:
		return "invalid"
	}
}

// Binding describes the fate of an acquisition's result.
type Binding struct {
	Kind Kind
	// Var is the variable holding the result, for Bound.
	Var *tree.Var
	// Stmt is the declaration or assignment binding the result, or the return statement.
	Stmt *tree.Node
	// Parent is the syntactic parent of the acquisition, skipping parentheses and casts.
	Parent *tree.Node
}

// Resolve determines the binding of the acquisition at site.
func Resolve(site *tree.Node) Binding {
	child, parent := ExpressionParent(site)
	b := Binding{Parent: parent}

	if parent == nil {
		return b
	}

	switch parent.Kind {
	case tree.KindReturn:
		b.Kind, b.Stmt = Returned, parent

	case tree.KindDecl:
		if parent.X == child && parent.Var != nil {
			b.Kind, b.Var, b.Stmt = Bound, parent.Var, parent
		}

	case tree.KindAssign:
		if parent.X != child {
			break
		}

		b.Stmt = parent
		switch lhs := tree.Unparen(parent.Lhs); {
		case lhs == nil:

		case lhs.Kind == tree.KindRef && lhs.Var != nil && lhs.Var.Kind != tree.VarField:
			b.Kind, b.Var = Bound, lhs.Var

		case lhs.Kind == tree.KindRef, lhs.Kind == tree.KindSelector:
			b.Kind = Stored

		case lhs.Kind == tree.KindOther && lhs.Name != "_":
			b.Kind = Stored // element of a container
		}
	}

	return b
}

// ExpressionParent returns the outermost parenthesized form of n and its parent.
func ExpressionParent(n *tree.Node) (child, parent *tree.Node) {
	child = n
	for child.Parent != nil && child.Parent.Kind == tree.KindParen {
		child = child.Parent
	}

	return child, child.Parent
}
