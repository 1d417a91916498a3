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

import (
	"iter"
	"slices"
)

// Link sets the parent links of all nodes below root.
func Link(root *Node) {
	var link func(n *Node) bool
	link = func(n *Node) bool {
		n.children(func(c *Node) bool {
			c.Parent = n
			link(c)

			return true
		})

		return true
	}

	root.Parent = nil
	link(root)
}

// Inspect traverses the tree below n in preorder, calling f for each node.
// When f returns false the children of that node are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}

	n.children(func(c *Node) bool {
		Inspect(c, f)

		return true
	})
}

// Preorder yields the nodes below n in preorder.
func Preorder(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var visit func(*Node) bool
		visit = func(n *Node) bool {
			return yield(n) && n.children(visit)
		}

		if n != nil {
			visit(n)
		}
	}
}

// Calls yields the call nodes below root in document order,
// including those of nested functions.
func Calls(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := range Preorder(root) {
			if n.Kind == KindCall && !yield(n) {
				return
			}
		}
	}
}

// Ancestors returns the parents of n, innermost first, up to and including
// the enclosing function root.
func Ancestors(n *Node) []*Node {
	var list []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		list = append(list, p)
		if p.Kind == KindFunc {
			break
		}
	}

	return list
}

// Enclosing returns the innermost ancestor of n with one of the given kinds,
// not crossing a function boundary.
func Enclosing(n *Node, kinds ...Kind) *Node {
	for _, p := range Ancestors(n) {
		if slices.Contains(kinds, p.Kind) {
			return p
		}
	}

	return nil
}

// Func returns the function root enclosing n.
func Func(n *Node) *Node {
	if a := Ancestors(n); len(a) > 0 && a[len(a)-1].Kind == KindFunc {
		return a[len(a)-1]
	}

	return nil
}

// Contains reports whether n is outer or a descendant of outer.
func Contains(outer, n *Node) bool {
	for ; n != nil; n = n.Parent {
		if n == outer {
			return true
		}
	}

	return false
}
