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

import "go/token"

// Node is a statement or expression of a lowered function body.
//
// Only the fields documented for its [Kind] are populated. Parent links are
// established by [Link] and must not be modified afterwards.
type Node struct {
	Kind     Kind
	Pos, End token.Pos
	Parent   *Node

	X    *Node
	Lhs  *Node
	Recv *Node
	List []*Node

	Then, Else *Node

	Body      *Node
	Catches   []*Node
	Finally   *Node
	Resources []*Node

	Name   string
	Callee string // qualified callee of a call, used for ownership lookups
	Var    *Var
	Type   Type // static type, nil when unknown
}

// VarKind classifies the storage of a [Var].
type VarKind uint8

const (
	// VarLocal is a variable declared in the function body.
	VarLocal VarKind = iota
	// VarParam is a function parameter or receiver.
	VarParam
	// VarField is a field of the enclosing object.
	VarField
	// VarResult is a named result, visible to the caller after any return.
	VarResult
)

// Var is a named variable. All references to a variable share the same *Var.
type Var struct {
	Name string
	Kind VarKind
	Pos  token.Pos
	Type Type
}

// IsRef reports whether n, with parentheses removed, refers to v.
func (n *Node) IsRef(v *Var) bool {
	n = Unparen(n)

	return n != nil && n.Kind == KindRef && n.Var == v
}

// Unparen returns n with enclosing parentheses, casts and assertions removed.
func Unparen(n *Node) *Node {
	for n != nil && n.Kind == KindParen {
		n = n.X
	}

	return n
}

// children returns the non-nil children of n in source order.
func (n *Node) children(yield func(*Node) bool) bool {
	for _, c := range [...]*Node{n.Lhs, n.Recv, n.X} {
		if c != nil && !yield(c) {
			return false
		}
	}

	for _, r := range n.Resources {
		if !yield(r) {
			return false
		}
	}

	for _, c := range [...]*Node{n.Body, n.Then, n.Else} {
		if c != nil && !yield(c) {
			return false
		}
	}

	for _, lists := range [...][]*Node{n.List, n.Catches} {
		for _, c := range lists {
			if c != nil && !yield(c) {
				return false
			}
		}
	}

	if n.Finally != nil {
		return yield(n.Finally)
	}

	return true
}
