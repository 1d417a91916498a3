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

// Package flow decides whether every path after an acquisition reaches a release.
//
// The walker is syntactic: a release counts when it is a statement of a finally
// block (or the statement right after the binding) that runs unconditionally.
// Releases inside branches, loops, catch blocks or nested functions do not.
package flow

import (
	"slices"

	"fillmore-labs.com/closeguard/internal/binding"
	"fillmore-labs.com/closeguard/internal/tree"
)

// Reason tells why the walker considers a resource released.
type Reason uint8

const (
	// NotClosed means no release was found.
	NotClosed Reason = iota
	// TryWithResources means the resource is declared by a try-with-resources statement.
	TryWithResources
	// InsideTry means the binding sits directly in a try body and inside-try acquisitions are allowed.
	InsideTry
	// ClosedNext means the statement after the binding releases the resource.
	ClosedNext
	// ClosedInFinally means an enclosing finally block releases the resource.
	ClosedInFinally
	// ReceiverClosed means an enclosing finally block releases the receiver of the acquisition.
	ReceiverClosed
)

func (r Reason) String() string {
	switch r {
	case NotClosed:
		return "not closed"
	case TryWithResources:
		return "try-with-resources"
	case InsideTry:
		return "inside try"
	case ClosedNext:
		return "closed by the following statement"
	case ClosedInFinally:
		return "closed in finally"
	case ReceiverClosed:
		return "receiver closed in finally"
	default:
		return "invalid"
	}
}

// Walker searches for releases of acquired resources.
type Walker struct {
	// CloseMethod is the name of the release method.
	CloseMethod string
	// ReceiverCloses enables the rule that closing the factory receiver releases the resource.
	ReceiverCloses bool
	// AllowInsideTry accepts bindings placed directly in a try body.
	AllowInsideTry bool
}

// Closed reports whether the resource acquired at site with binding b is released on all paths.
func (w Walker) Closed(site *tree.Node, b binding.Binding) Reason {
	if b.Kind == binding.Bound {
		if r := w.closedVar(b.Var, b.Stmt); r != NotClosed {
			return r
		}
	}

	if w.ReceiverCloses && w.receiverClosed(site) {
		return ReceiverClosed
	}

	return NotClosed
}

func (w Walker) closedVar(v *tree.Var, stmt *tree.Node) Reason {
	ancestors := tree.Ancestors(stmt)
	if len(ancestors) == 0 {
		return NotClosed
	}

	parent := ancestors[0]
	if parent.Kind == tree.KindTry && slices.Contains(parent.Resources, stmt) {
		return TryWithResources
	}

	if w.AllowInsideTry && parent.Kind == tree.KindBlock && len(ancestors) > 1 {
		if try := ancestors[1]; try.Kind == tree.KindTry && try.Body == parent {
			return InsideTry
		}
	}

	if next := Following(stmt); next != nil {
		if next.Kind == tree.KindTry && w.tryCloses(next, v) || w.closes(next, v) {
			return ClosedNext
		}
	}

	if w.enclosingCloses(stmt, ancestors, v) {
		return ClosedInFinally
	}

	return NotClosed
}

// receiverClosed reports whether the receiver of site is a variable closed in an enclosing finally.
func (w Walker) receiverClosed(site *tree.Node) bool {
	recv := tree.Unparen(site.Recv)
	if recv == nil || recv.Kind != tree.KindRef || recv.Var == nil {
		return false
	}

	return w.enclosingCloses(site, tree.Ancestors(site), recv.Var)
}

// enclosingCloses walks the try regions around n outward until one closes v in its finally block.
func (w Walker) enclosingCloses(n *tree.Node, ancestors []*tree.Node, v *tree.Var) bool {
	child := n
	for _, a := range ancestors {
		if a.Kind == tree.KindTry && a.Finally != child && !slices.Contains(a.Resources, child) {
			if a.Finally != nil && w.closesIn(a.Finally, v) {
				return true
			}
		}

		child = a
	}

	return false
}

// tryCloses reports whether the try region t releases v on exit.
func (w Walker) tryCloses(t *tree.Node, v *tree.Var) bool {
	for _, r := range t.Resources {
		if r.Kind == tree.KindExprStmt && r.X.IsRef(v) {
			return true
		}
	}

	return t.Finally != nil && w.closesIn(t.Finally, v)
}

// closesIn reports whether block unconditionally contains a release of v.
// Statements after one that may leave the block are not reached on every path.
func (w Walker) closesIn(block *tree.Node, v *tree.Var) bool {
	for _, s := range block.List {
		if w.closes(s, v) {
			return true
		}

		if mayLeave(s) {
			return false
		}
	}

	return false
}

// mayLeave reports whether control can leave the block containing stmt from inside stmt,
// other than by completing it.
func mayLeave(stmt *tree.Node) bool {
	found := false
	tree.Inspect(stmt, func(n *tree.Node) bool {
		switch {
		case found, n.Kind == tree.KindFunc:
			return false

		case n.Kind == tree.KindReturn, n.Kind == tree.KindThrow, n.Kind == tree.KindGuard:
			found = true

		case n.Kind != tree.KindOther:

		case n.Name == tree.NameJump:
			found = true

		case n.Name == tree.NameBreak:
			found = !targetWithin(n, stmt, true)

		case n.Name == tree.NameContinue:
			found = !targetWithin(n, stmt, false)
		}

		return !found
	})

	return found
}

// targetWithin reports whether the loop, or switch when switches is set, left by jump lies within stmt.
func targetWithin(jump, stmt *tree.Node, switches bool) bool {
	for p := jump.Parent; p != nil; p = p.Parent {
		if p.Kind == tree.KindLoop || switches && p.Kind == tree.KindOther && p.Name == tree.NameSwitch {
			return true
		}

		if p == stmt {
			break
		}
	}

	return false
}

// closes reports whether executing stmt unconditionally releases v.
func (w Walker) closes(stmt *tree.Node, v *tree.Var) bool {
	switch stmt.Kind {
	case tree.KindBlock:
		return w.closesIn(stmt, v)

	case tree.KindTry:
		return w.closesIn(stmt.Body, v) || stmt.Finally != nil && w.closesIn(stmt.Finally, v)

	case tree.KindExprStmt, tree.KindDecl, tree.KindIf, tree.KindGuard, tree.KindReturn:
		return w.closeCallIn(stmt.X, v) || slices.ContainsFunc(stmt.List, func(x *tree.Node) bool { return w.closeCallIn(x, v) })

	case tree.KindAssign:
		return w.closeCallIn(stmt.X, v)

	default:
		return false
	}
}

// closeCallIn reports whether the expression x evaluates a release of v outside of nested functions.
func (w Walker) closeCallIn(x *tree.Node, v *tree.Var) bool {
	found := false
	tree.Inspect(x, func(n *tree.Node) bool {
		switch {
		case found, n.Kind == tree.KindFunc:
			return false

		case w.IsClose(n, v):
			found = true

			return false
		}

		return true
	})

	return found
}

// IsClose reports whether n is a call releasing v.
func (w Walker) IsClose(n *tree.Node, v *tree.Var) bool {
	return n.Kind == tree.KindCall && n.Name == w.CloseMethod && len(n.List) == 0 && n.Recv != nil && n.Recv.IsRef(v)
}

// Following returns the first statement after stmt in its block, skipping guards.
func Following(stmt *tree.Node) *tree.Node {
	for _, next := range FollowingGuards(stmt) {
		if next.Kind != tree.KindGuard {
			return next
		}
	}

	return nil
}

// FollowingGuards returns the statements after stmt up to and including the first that is not a guard.
func FollowingGuards(stmt *tree.Node) []*tree.Node {
	block := stmt.Parent
	if block == nil || block.Kind != tree.KindBlock {
		return nil
	}

	i := slices.Index(block.List, stmt)
	if i < 0 {
		return nil
	}

	rest := block.List[i+1:]
	for j, next := range rest {
		if next.Kind != tree.KindGuard {
			return rest[:j+1]
		}
	}

	return rest
}
