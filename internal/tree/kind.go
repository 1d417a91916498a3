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

//go:generate go tool stringer -type Kind -trimprefix Kind

// Kind identifies the variant of a [Node].
type Kind uint8

const (
	KindInvalid Kind = iota

	// Statements.
	KindBlock    // List: statements
	KindTry      // Resources, Body, Catches, Finally
	KindIf       // X: condition, Then, Else
	KindLoop     // X: condition or range operand, Body
	KindReturn   // List: results
	KindThrow    // X: thrown value
	KindDecl     // Var, X: initial value (may be nil)
	KindAssign   // Lhs, X
	KindExprStmt // X
	KindGuard    // X: condition, Then: failure exit

	// Expressions.
	KindCall     // Recv (may be nil), Name, List: arguments, Callee
	KindNew      // Name: constructed type, List: arguments
	KindRef      // Var
	KindSelector // Recv, Name
	KindParen    // X: parenthesized, cast or asserted operand

	// KindFunc is a function root: method, constructor, initializer, lambda or function literal.
	KindFunc // Name, Body

	// KindOther is any construct without analysis relevance; its children are kept in List.
	KindOther
)

// Names of [KindOther] nodes whose value holds some of their operands.
const (
	NameComposite   = "{}" // List: elements of a composite literal or array initializer
	NameAddress     = "&"  // List: operand whose address is taken
	NameConditional = "?:" // List: condition, consequence, alternative
)

// Names of [KindOther] nodes transferring control.
const (
	NameSwitch   = "switch"   // List: one block per case, targeted by [NameBreak]
	NameBreak    = "break"    // leaves the innermost loop or switch
	NameContinue = "continue" // leaves the current iteration of the innermost loop
	NameJump     = "goto"     // labeled break or continue, or goto
)

// IsStmt reports whether nodes of kind k are statements.
func (k Kind) IsStmt() bool {
	return KindBlock <= k && k <= KindGuard
}
