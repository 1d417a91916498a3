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

package gotree

import (
	"go/types"

	"fillmore-labs.com/closeguard/internal/tree"
)

// goType adapts a [types.Type] to [tree.Type].
type goType struct{ t types.Type }

// typeOf returns the program tree type of t. For tuples, the type of the first element is used.
func typeOf(t types.Type) tree.Type {
	if tuple, ok := t.(*types.Tuple); ok {
		if tuple.Len() == 0 {
			return nil
		}

		t = tuple.At(0).Type()
	}

	if t == nil || t == types.Typ[types.Invalid] {
		return nil
	}

	return goType{t}
}

// Name returns the package path qualified name of the type, without pointer indirection.
func (g goType) Name() string {
	t := deref(g.t)
	if n, ok := t.(*types.Named); ok {
		if pkg := n.Obj().Pkg(); pkg != nil {
			return pkg.Path() + "." + n.Obj().Name()
		}

		return n.Obj().Name()
	}

	return t.String()
}

func (g goType) Presentable() string {
	return types.TypeString(g.t, (*types.Package).Name)
}

// Supertypes returns the embedded fields of a struct type.
func (g goType) Supertypes() []tree.Type {
	st, ok := deref(g.t).Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var supers []tree.Type
	for i := range st.NumFields() {
		if f := st.Field(i); f.Embedded() {
			supers = append(supers, goType{f.Type()})
		}
	}

	return supers
}
