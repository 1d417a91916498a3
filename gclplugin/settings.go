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

package gclplugin

import (
	closeguard "fillmore-labs.com/closeguard/analyzer"
	"fillmore-labs.com/closeguard/internal/catalog"
)

// Settings represent the configuration options for an instance of the [Plugin].
type Settings struct {
	// AllowInsideTry accepts acquisitions placed directly in a deferred region.
	AllowInsideTry *bool `json:"allow-inside-try,omitzero"`
	// Owners lists functions taking ownership of a file argument.
	Owners []string `json:"owners,omitzero"`
	// Factories lists additional methods returning a file, as pkg/path.Type.Method.
	Factories []string `json:"factories,omitzero"`
}

// Options converts [Settings] into a list of [closeguard.Option].
func (s Settings) Options() ([]closeguard.Option, error) {
	var opts []closeguard.Option

	opts = appendOption(opts, s.AllowInsideTry, closeguard.WithAllowInsideTry)

	if len(s.Owners) > 0 {
		opts = append(opts, closeguard.WithOwners(s.Owners...))
	}

	if len(s.Factories) > 0 {
		factories := make([]closeguard.Factory, 0, len(s.Factories))
		for _, f := range s.Factories {
			e, err := catalog.ParseEntry(f)
			if err != nil {
				return nil, err
			}

			factories = append(factories, e)
		}

		opts = append(opts, closeguard.WithFactories(factories...))
	}

	return opts, nil
}

func appendOption[T any](opts []closeguard.Option, value *T, constructor func(T) closeguard.Option) []closeguard.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
