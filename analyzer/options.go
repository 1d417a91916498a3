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

package analyzer

import (
	"log/slog"

	"fillmore-labs.com/closeguard/internal/catalog"
	"fillmore-labs.com/closeguard/internal/config"
	"fillmore-labs.com/closeguard/internal/run"
)

// Option configures specific behavior of a [New] closeguard analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithAllowInsideTry is an [Option] to accept acquisitions placed directly in a region
// guarded by a defer, even when the deferred call does not close them.
func WithAllowInsideTry(allow bool) Option { return insideTryOption{allow: allow} }

type insideTryOption struct{ allow bool }

func (o insideTryOption) apply(r *run.Options) {
	r.Behavior.Set(config.AllowInsideTry, o.allow)
}

func (o insideTryOption) LogAttr() slog.Attr {
	return slog.Bool("allow-inside-try", o.allow)
}

// WithOwners is an [Option] adding functions that take ownership of a file passed to them,
// like "os.NewFile" or "(example.com/pool.Pool).Register".
func WithOwners(owners ...string) Option { return ownersOption{owners: owners} }

type ownersOption struct{ owners []string }

func (o ownersOption) apply(r *run.Options) {
	r.Owners = append(r.Owners, o.owners...)
}

func (o ownersOption) LogAttr() slog.Attr {
	return slog.Any("owners", o.owners)
}

// Factory names a method returning a file that has to be closed.
type Factory = catalog.Entry

// WithFactories is an [Option] adding methods returning a file that has to be closed.
func WithFactories(factories ...Factory) Option { return factoriesOption{factories: factories} }

type factoriesOption struct{ factories []catalog.Entry }

func (o factoriesOption) apply(r *run.Options) {
	r.Factories = append(r.Factories, o.factories...)
}

func (o factoriesOption) LogAttr() slog.Attr {
	names := make([]string, 0, len(o.factories))
	for _, f := range o.factories {
		names = append(names, f.String())
	}

	return slog.Any("factories", names)
}
