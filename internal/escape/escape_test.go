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

package escape_test

import (
	"testing"

	. "fillmore-labs.com/closeguard/internal/escape"
	"fillmore-labs.com/closeguard/internal/tree"
	tt "fillmore-labs.com/closeguard/internal/tree/treetest"
)

func TestEscapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(c *tree.Var) []*tree.Node
		want  bool
	}{
		{"unused", func(_ *tree.Var) []*tree.Node {
			return nil
		}, false},
		{"used", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Expr(tt.Call(tt.Ref(c), "read"))}
		}, false},
		{"returned", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Ref(c))}
		}, true},
		{"returned cast", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Paren(tt.Ref(c)))}
		}, true},
		{"returned in aggregate", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Named(tree.NameComposite, tt.Ref(c)), tt.Other())}
		}, true},
		{"returned address of aggregate", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Named(tree.NameAddress, tt.Named(tree.NameComposite, tt.Ref(c))))}
		}, true},
		{"returned conditionally", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Named(tree.NameConditional, tt.Other(), tt.Ref(c), tt.Other()))}
		}, true},
		{"returned condition", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Named(tree.NameConditional, tt.Ref(c), tt.Other(), tt.Other()))}
		}, false},
		{"null check returned", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Other(tt.Ref(c), tt.Other()))}
		}, false},
		{"null check copied and returned", func(c *tree.Var) []*tree.Node {
			ok := tt.Local("ok", nil)

			return []*tree.Node{tt.Decl(ok, tt.Other(tt.Ref(c), tt.Other())), tt.Return(tt.Ref(ok))}
		}, false},
		{"param rebound", func(c *tree.Var) []*tree.Node {
			p := tt.Param("p", nil)

			return []*tree.Node{tt.Assign(tt.Ref(p), tt.Ref(c)), tt.Expr(tt.Call(tt.Ref(p), "isOpen"))}
		}, false},
		{"named result", func(c *tree.Var) []*tree.Node {
			r := tt.Result("r", nil)

			return []*tree.Node{tt.Assign(tt.Ref(r), tt.Ref(c)), tt.Return()}
		}, true},
		{"return of call result", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Return(tt.Call(tt.Ref(c), "size"))}
		}, false},
		{"field", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Assign(tt.Ref(tt.Field("ch", nil)), tt.Ref(c))}
		}, true},
		{"selector", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Assign(tt.Sel(tt.Ref(tt.Local("o", nil)), "ch"), tt.Ref(c))}
		}, true},
		{"copy returned", func(c *tree.Var) []*tree.Node {
			d := tt.Local("d", nil)

			return []*tree.Node{tt.Decl(d, tt.Ref(c)), tt.Return(tt.Ref(d))}
		}, true},
		{"copy kept", func(c *tree.Var) []*tree.Node {
			d := tt.Local("d", nil)

			return []*tree.Node{tt.Decl(d, tt.Ref(c)), tt.Expr(tt.Call(tt.Ref(d), "close"))}
		}, false},
		{"copy cycle", func(c *tree.Var) []*tree.Node {
			d := tt.Local("d", nil)

			return []*tree.Node{tt.Decl(d, tt.Ref(c)), tt.Assign(tt.Ref(c), tt.Ref(d))}
		}, false},
		{"owner", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Expr(tt.Static("org.apache.commons.io.IOUtils.closeQuietly", tt.Ref(c)))}
		}, true},
		{"owning constructor", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Expr(tt.New(tt.NewClass("com.example.Owner"), tt.Ref(c)))}
		}, true},
		{"not owner", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Expr(tt.Static("com.example.Util.use", tt.Ref(c)))}
		}, false},
		{"captured", func(c *tree.Var) []*tree.Node {
			return []*tree.Node{tt.Expr(tt.Lambda(tt.Expr(tt.Call(tt.Ref(c), "read"))))}
		}, true},
		{"discarded", func(c *tree.Var) []*tree.Node {
			blank := tt.Other()
			blank.Name = "_"

			return []*tree.Node{tt.Assign(blank, tt.Ref(c))}
		}, false},
	}

	e := New([]string{"org.apache.commons.io.IOUtils.closeQuietly", "com.example.Owner"})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := tt.Local("c", nil)
			decl := tt.Decl(c, tt.Other())
			tt.Func(append([]*tree.Node{decl}, tc.build(c)...)...)

			if got := e.Escapes(c, decl); got != tc.want {
				t.Errorf("Escapes() = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestEscapesNonLocal(t *testing.T) {
	t.Parallel()

	e := New(nil)

	tests := []struct {
		v    *tree.Var
		want bool
	}{
		{tt.Field("ch", nil), true},
		{tt.Result("ch", nil), true},
		{tt.Param("ch", nil), false},
	}

	for _, tc := range tests {
		decl := tt.Assign(tt.Ref(tc.v), tt.Other())
		tt.Func(decl, tt.Expr(tt.Call(tt.Ref(tc.v), "isOpen")))

		if got := e.Escapes(tc.v, decl); got != tc.want {
			t.Errorf("Escapes(%s) = %t, want %t", tc.v.Name, got, tc.want)
		}
	}
}

func TestPassedToOwner(t *testing.T) {
	t.Parallel()

	e := New([]string{"com.example.Pool.register"})

	owned := tt.Call(tt.Ref(tt.Param("s", nil)), "getChannel")
	other := tt.Call(tt.Ref(tt.Param("s", nil)), "getChannel")
	tt.Func(
		tt.Expr(tt.Static("com.example.Pool.register", tt.Paren(owned))),
		tt.Expr(tt.Static("com.example.Util.use", other)),
	)

	if !e.PassedToOwner(owned) {
		t.Error("PassedToOwner(register argument) = false, want true")
	}

	if e.PassedToOwner(other) {
		t.Error("PassedToOwner(use argument) = true, want false")
	}
}
