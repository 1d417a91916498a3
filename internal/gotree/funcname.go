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
)

// FuncName identifies a function or method by package path, receiver type name and name.
type FuncName struct {
	Path, Receiver, Name string
}

func (f FuncName) String() string {
	switch {
	case f.Receiver == "" && f.Path == "":
		return f.Name

	case f.Receiver == "":
		return f.Path + "." + f.Name

	case f.Path == "":
		return "(" + f.Receiver + ")." + f.Name

	default:
		return "(" + f.Path + "." + f.Receiver + ")." + f.Name
	}
}

// FuncNameOf returns the [FuncName] of fun. Pointer receivers and aliases are resolved to the base type.
func FuncNameOf(fun *types.Func) FuncName {
	var path string
	if pkg := fun.Pkg(); pkg != nil {
		path = pkg.Path()
	}

	recv := fun.Signature().Recv()
	if recv == nil {
		return FuncName{Path: path, Name: fun.Name()}
	}

	switch t := deref(recv.Type()).(type) {
	case *types.Named:
		var path string
		if pkg := t.Obj().Pkg(); pkg != nil {
			path = pkg.Path()
		}

		return FuncName{Path: path, Receiver: t.Obj().Name(), Name: fun.Name()}

	case *types.Interface:
		return FuncName{Receiver: "interface", Name: fun.Name()}

	default:
		return FuncName{Receiver: "<invalid>", Name: fun.Name()}
	}
}

func deref(t types.Type) types.Type {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		return types.Unalias(p.Elem())
	}

	return t
}
