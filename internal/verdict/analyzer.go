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

// Package verdict classifies acquisition sites and reports leaked resources.
package verdict

import (
	"context"
	"fmt"
	"go/token"
	"runtime/trace"

	"fillmore-labs.com/closeguard/internal/binding"
	"fillmore-labs.com/closeguard/internal/catalog"
	"fillmore-labs.com/closeguard/internal/escape"
	"fillmore-labs.com/closeguard/internal/flow"
	"fillmore-labs.com/closeguard/internal/tree"
)

// Config holds the analysis settings.
type Config struct {
	// AllowInsideTry accepts acquisitions bound directly in a try body.
	AllowInsideTry bool
	// Owners lists qualified callees taking ownership of a resource passed as an argument.
	Owners []string
}

// Reason explains a [Result].
type Reason string

const (
	ReasonReturned Reason = "returned"
	ReasonStored   Reason = "stored"
	ReasonEscaped  Reason = "escaped"
	ReasonOwned    Reason = "passed to owner"
	ReasonLeaked   Reason = "leaked"
)

// Result is the outcome of examining an acquisition site.
type Result struct {
	Verdict Verdict
	Reason  Reason
	Binding binding.Binding
}

// Analyzer examines acquisition sites against a resource catalog.
type Analyzer struct {
	catalog *catalog.Catalog
	walker  flow.Walker
	escape  escape.Classifier
}

// New creates an [Analyzer].
func New(cat *catalog.Catalog, cfg Config) *Analyzer {
	conv := cat.Convention()

	return &Analyzer{
		catalog: cat,
		walker: flow.Walker{
			CloseMethod:    conv.CloseMethod,
			ReceiverCloses: conv.ReceiverCloses,
			AllowInsideTry: cfg.AllowInsideTry,
		},
		escape: escape.New(cfg.Owners),
	}
}

// IsAcquisition reports whether the call n acquires a resource.
func (a *Analyzer) IsAcquisition(n *tree.Node) bool {
	return n != nil && n.Kind == tree.KindCall && n.Recv != nil && a.catalog.IsResourceFactory(n.Recv.Type, n.Name)
}

// Examine classifies the call site. The second result is false when site is no acquisition.
func (a *Analyzer) Examine(site *tree.Node) (Result, bool) {
	if !a.IsAcquisition(site) {
		return Result{}, false
	}

	b := binding.Resolve(site)
	res := Result{Verdict: Safe, Binding: b}

	switch b.Kind {
	case binding.Returned:
		res.Reason = ReasonReturned

		return res, true

	case binding.Stored:
		res.Reason = ReasonStored

		return res, true
	}

	if r := a.walker.Closed(site, b); r != flow.NotClosed {
		res.Reason = Reason(r.String())

		return res, true
	}

	switch {
	case b.Kind == binding.Bound && a.escape.Escapes(b.Var, b.Stmt):
		res.Reason = ReasonEscaped

	case b.Kind == binding.Unbound && a.escape.PassedToOwner(site):
		res.Reason = ReasonOwned

	default:
		res.Verdict, res.Reason = Leaked, ReasonLeaked
	}

	return res, true
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to a [Sink].
type SinkFunc func(d Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// ExamineCallExpression reports a diagnostic to sink when site leaks a resource.
func (a *Analyzer) ExamineCallExpression(site *tree.Node, sink Sink) {
	res, ok := a.Examine(site)
	if !ok || res.Verdict != Leaked {
		return
	}

	sink.Report(a.diagnostic(site, res.Binding))
}

// ExamineAll examines every call below root in document order.
func (a *Analyzer) ExamineAll(ctx context.Context, root *tree.Node, sink Sink) error {
	defer trace.StartRegion(ctx, "ExamineAll").End()

	for call := range tree.Calls(root) {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.ExamineCallExpression(call, sink)
	}

	return nil
}

func (a *Analyzer) diagnostic(site *tree.Node, b binding.Binding) Diagnostic {
	conv := a.catalog.Convention()

	d := Diagnostic{
		Pos:      site.Pos,
		End:      site.End,
		Severity: Warning,
		Message:  fmt.Sprintf(conv.Format, presentable(site)),
		Fix:      Fix{ID: conv.Fix},
	}

	if b.Kind == binding.Bound && b.Var != nil {
		d.Fix.Var = b.Var.Name
		d.Fix.Stmt, d.Fix.After = b.Stmt.Pos, b.Stmt.End
		for _, g := range flow.FollowingGuards(b.Stmt) {
			if g.Kind == tree.KindGuard {
				d.Fix.After = g.End
			}
		}
	}

	return d
}

func presentable(site *tree.Node) string {
	if name := tree.Presentable(site.Type); name != "" {
		return name
	}

	if recv := tree.Presentable(site.Recv.Type); recv != "" {
		return recv + "." + site.Name + "()"
	}

	return site.Name + "()"
}

// Severity of a diagnostic.
type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}

	return "warning"
}

// Diagnostic reports a leaked resource.
type Diagnostic struct {
	Pos, End token.Pos
	Severity Severity
	Message  string
	Fix      Fix
}

// Fix describes the suggested repair of a leak.
type Fix struct {
	// ID identifies the kind of fix.
	ID string
	// Var is the variable holding the resource, empty when the result is not bound.
	Var string
	// Stmt is the start of the statement binding the resource.
	Stmt token.Pos
	// After is the position after which the release should be inserted.
	After token.Pos
}
