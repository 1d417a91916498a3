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

// Package escape finds resources whose release obligation leaves the current function.
package escape

import (
	"slices"

	"fillmore-labs.com/closeguard/internal/tree"
)

// Classifier detects escaping resources.
type Classifier struct {
	owners map[string]struct{}
}

// New creates a [Classifier]. Passing a resource to one of owners transfers the obligation to close it.
func New(owners []string) Classifier {
	c := Classifier{owners: make(map[string]struct{}, len(owners))}
	for _, o := range owners {
		c.owners[o] = struct{}{}
	}

	return c
}

// IsOwner reports whether the call or construction n takes ownership of its arguments.
func (c Classifier) IsOwner(n *tree.Node) bool {
	var name string
	switch n.Kind {
	case tree.KindCall:
		name = n.Callee

	case tree.KindNew:
		name = n.Name

	default:
		return false
	}

	_, ok := c.owners[name]

	return ok && name != ""
}

// PassedToOwner reports whether the expression x is a direct argument of an owning call.
func (c Classifier) PassedToOwner(x *tree.Node) bool {
	for x.Parent != nil && x.Parent.Kind == tree.KindParen {
		x = x.Parent
	}

	p := x.Parent

	return p != nil && c.IsOwner(p) && slices.Contains(p.List, x)
}

// Escapes reports whether the resource held by v escapes the function enclosing from.
func (c Classifier) Escapes(v *tree.Var, from *tree.Node) bool {
	if v == nil {
		return false
	}

	fn := tree.Func(from)
	if fn == nil {
		return false
	}

	e := escapes{Classifier: c, body: fn.Body, state: make(map[*tree.Var]state)}

	return e.escapes(v)
}

type state uint8

const (
	unknown state = iota
	visiting
	local
	escaping
)

type escapes struct {
	Classifier
	body  *tree.Node
	state map[*tree.Var]state
}

func (e *escapes) escapes(v *tree.Var) bool {
	switch e.state[v] {
	case escaping:
		return true

	case visiting, local:
		return false
	}

	switch v.Kind {
	case tree.VarField, tree.VarResult:
		e.state[v] = escaping

		return true
	}

	e.state[v] = visiting

	var copies []*tree.Var

	result := false
	tree.Inspect(e.body, func(n *tree.Node) bool {
		if result {
			return false
		}

		switch n.Kind {
		case tree.KindFunc:
			result = references(n, v)

			return false

		case tree.KindReturn:
			result = slices.ContainsFunc(n.List, func(x *tree.Node) bool { return flowsInto(x, v) })

		case tree.KindAssign:
			if !flowsInto(n.X, v) {
				break
			}

			switch lhs := tree.Unparen(n.Lhs); {
			case lhs == nil:

			case lhs.Kind == tree.KindRef && lhs.Var != nil && lhs.Var.Kind != tree.VarField:
				copies = append(copies, lhs.Var)

			case lhs.Kind == tree.KindOther && lhs.Name == "_":

			default:
				result = true
			}

		case tree.KindDecl:
			if n.Var != nil && flowsInto(n.X, v) {
				copies = append(copies, n.Var)
			}

		case tree.KindCall, tree.KindNew:
			result = e.IsOwner(n) && slices.ContainsFunc(n.List, func(x *tree.Node) bool { return x.IsRef(v) })
		}

		return !result
	})

	if !result {
		result = slices.ContainsFunc(copies, e.escapes)
	}

	if result {
		e.state[v] = escaping
	} else {
		e.state[v] = local
	}

	return result
}

// flowsInto reports whether evaluating x yields v itself or an aggregate holding v.
//
// Operators and other opaque constructs compute a new value and do not hold v.
func flowsInto(x *tree.Node, v *tree.Var) bool {
	holds := func(c *tree.Node) bool { return flowsInto(c, v) }

	switch x = tree.Unparen(x); {
	case x == nil:
		return false

	case x.Kind == tree.KindRef:
		return x.Var == v

	case x.Kind != tree.KindOther:
		return false
	}

	switch x.Name {
	case tree.NameComposite, tree.NameAddress:
		return slices.ContainsFunc(x.List, holds)

	case tree.NameConditional:
		return len(x.List) > 1 && slices.ContainsFunc(x.List[1:], holds)

	default:
		return false
	}
}

// references reports whether v is referenced below n.
func references(n *tree.Node, v *tree.Var) bool {
	found := false
	tree.Inspect(n, func(n *tree.Node) bool {
		if n.Kind == tree.KindRef && n.Var == v {
			found = true
		}

		return !found
	})

	return found
}
