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

package gotree_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"fillmore-labs.com/closeguard/internal/catalog"
	. "fillmore-labs.com/closeguard/internal/gotree"
	"fillmore-labs.com/closeguard/internal/testsource"
	"fillmore-labs.com/closeguard/internal/tree"
	"fillmore-labs.com/closeguard/internal/verdict"
)

const header = `package test

import (
	"log"
	"net"
	"os"
)

var (
	_ = log.Fatal
	_ = net.Dial
	_ = os.Exit
)

`

func lower(t *testing.T, src string) *tree.Node {
	t.Helper()

	fset, f, fn := testsource.Parse(t, header+src)
	_, info := testsource.Check(t, fset, f)

	return Func(info, fn)
}

func TestFuncDefer(t *testing.T) {
	t.Parallel()

	root := lower(t, `func f(c *net.TCPConn) error {
	f, err := c.File()
	if err != nil {
		return err
	}
	defer f.Close()

	return nil
}`)

	got := kinds(root.Body.List)
	want := []tree.Kind{tree.KindDecl, tree.KindGuard, tree.KindTry}

	if !slices.Equal(got, want) {
		t.Fatalf("lowered body = %v, want %v", got, want)
	}

	try := root.Body.List[2]
	if try.Finally == nil || len(try.Finally.List) != 1 || try.Finally.List[0].X.Name != "Close" {
		t.Errorf("deferred call not lowered into finally")
	}

	if got := kinds(try.Body.List); !slices.Equal(got, []tree.Kind{tree.KindReturn}) {
		t.Errorf("try body = %v, want the statements after defer", got)
	}

	decl := root.Body.List[0]
	if decl.Var == nil || decl.Var.Name != "f" || decl.Var.Kind != tree.VarLocal {
		t.Errorf("declaration binds %+v, want local f", decl.Var)
	}

	if call := decl.X; call.Kind != tree.KindCall || call.Recv == nil || call.Recv.Type.Name() != "net.TCPConn" {
		t.Errorf("acquisition lowered as %v", call.Kind)
	} else if got, want := call.Type.Presentable(), "*os.File"; got != want {
		t.Errorf("acquisition type = %q, want %q", got, want)
	}
}

func TestFuncGuards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want tree.Kind
	}{
		{"return", "if err != nil {\n\t\treturn\n\t}", tree.KindGuard},
		{"panic", "if err != nil {\n\t\tpanic(err)\n\t}", tree.KindGuard},
		{"log.Fatal", "if err != nil {\n\t\tlog.Fatal(err)\n\t}", tree.KindGuard},
		{"os.Exit", "if nil != err {\n\t\tos.Exit(1)\n\t}", tree.KindGuard},
		{"no exit", "if err != nil {\n\t\tprintln(err)\n\t}", tree.KindIf},
		{"else", "if err != nil {\n\t\treturn\n\t} else {\n\t\tprintln()\n\t}", tree.KindIf},
		{"equal", "if err == nil {\n\t\treturn\n\t}", tree.KindIf},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := lower(t, "func f(err error) {\n\t"+tc.body+"\n}")

			if got := root.Body.List[0].Kind; got != tc.want {
				t.Errorf("lowered %q as %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}

func TestFuncGuardsLoggers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, name, decl string
		want             tree.Kind
	}{
		{"k8s.io/klog", "klog", "ExitDepth", tree.KindGuard},
		{"k8s.io/klog", "klog", "Fatalln", tree.KindGuard},
		{"k8s.io/klog", "klog", "Info", tree.KindIf},
		{"k8s.io/klog/v2", "klog", "Exitln", tree.KindGuard},
		{"k8s.io/klog/v2", "klog", "FatalDepth", tree.KindGuard},
		{"go.uber.org/zap", "zap", "SugaredLogger.Fatalln", tree.KindGuard},
		{"go.uber.org/zap", "zap", "SugaredLogger.Panicln", tree.KindGuard},
		{"go.uber.org/zap", "zap", "SugaredLogger.Infoln", tree.KindIf},
		{"github.com/sirupsen/logrus", "logrus", "Entry.Panicf", tree.KindGuard},
		{"github.com/sirupsen/logrus", "logrus", "Entry.Panicln", tree.KindGuard},
		{"github.com/sirupsen/logrus", "logrus", "Logger.Panicln", tree.KindGuard},
	}

	for _, tc := range tests {
		t.Run(tc.path+" "+tc.decl, func(t *testing.T) {
			t.Parallel()

			params, call := "err error", tc.name+"."+tc.decl
			if typ, method, ok := strings.Cut(tc.decl, "."); ok {
				params += ", l *" + tc.name + "." + typ
				call = "l." + method
			}

			src := "package test\n\nimport \"" + tc.path + "\"\n\n" +
				"func f(" + params + ") {\n\tif err != nil {\n\t\t" + call + "(err)\n\t}\n}\n"

			fset, f, fn := testsource.Parse(t, src)
			_, info := testsource.Check(t, fset, f, testsource.Stub(tc.path, tc.name, tc.decl))

			if got := Func(info, fn).Body.List[0].Kind; got != tc.want {
				t.Errorf("lowered %s(err) as %v, want %v", call, got, tc.want)
			}
		})
	}
}

func TestFuncVerdicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want verdict.Verdict
	}{
		{"deferred close", `func f(c *net.TCPConn) error {
	f, err := c.File()
	if err != nil {
		return err
	}
	defer f.Close()

	return nil
}`, verdict.Safe},
		{"missing close", `func f(c *net.TCPConn) error {
	f, err := c.File()
	if err != nil {
		return err
	}
	_ = f.Name()

	return nil
}`, verdict.Leaked},
		{"returned", `func f(c *net.TCPConn) (*os.File, error) {
	return c.File()
}`, verdict.Safe},
		{"deferred function literal", `func f(c *net.UDPConn) {
	f, err := c.File()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = f.Close()
	}()
}`, verdict.Safe},
		{"conditional deferred close", `func f(c *net.UnixConn) {
	f, _ := c.File()
	defer func() {
		if f != nil {
			f.Close()
		}
	}()
}`, verdict.Leaked},
		{"stored in struct", `type holder struct{ file *os.File }

func (h *holder) open(c *net.TCPConn) (err error) {
	h.file, err = c.File()

	return
}`, verdict.Safe},
		{"discarded", `func f(c *net.TCPConn) {
	_, _ = c.File()
}`, verdict.Leaked},
		{"captured by goroutine", `func f(c *net.TCPConn) {
	f, err := c.File()
	if err != nil {
		return
	}
	go func() {
		defer f.Close()
	}()
}`, verdict.Safe},
		{"named result", `func f(c *net.TCPConn) (file *os.File, err error) {
	file, err = c.File()

	return
}`, verdict.Safe},
		{"nil check returned", `func f(c *net.TCPConn) bool {
	f, _ := c.File()

	return f != nil
}`, verdict.Leaked},
		{"returned in struct", `type holder struct{ file *os.File }

func f(c *net.TCPConn) *holder {
	f, _ := c.File()

	return &holder{file: f}
}`, verdict.Safe},
		{"parameter rebound", `func f(c *net.TCPConn, f *os.File) {
	f, _ = c.File()
	_ = f.Name()
}`, verdict.Leaked},
		{"deferred close after early return", `func f(c *net.TCPConn, skip bool) {
	f, _ := c.File()
	defer func() {
		if skip {
			return
		}
		_ = f.Close()
	}()
}`, verdict.Leaked},
		{"deferred close after loop", `func f(c *net.TCPConn, names []string) {
	f, _ := c.File()
	defer func() {
		for _, n := range names {
			if n == "" {
				break
			}
		}
		_ = f.Close()
	}()
}`, verdict.Safe},
		{"embedded connection", `type wrapped struct{ *net.TCPConn }

func f(w wrapped) {
	f, _ := w.File()
	_ = f
}`, verdict.Leaked},
		{"asserted listener", `func f(l net.Listener) {
	f, _ := l.(*net.TCPListener).File()
	defer f.Close()
}`, verdict.Safe},
		{"close at end", `func f(c *net.IPConn) {
	f, err := c.File()
	if err != nil {
		return
	}
	f.Close()
}`, verdict.Safe},
	}

	a := verdict.New(catalog.Go, verdict.Config{})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := lower(t, tc.src)

			var results []verdict.Result
			for call := range tree.Calls(root) {
				if res, ok := a.Examine(call); ok {
					results = append(results, res)
				}
			}

			if len(results) != 1 {
				t.Fatalf("found %d acquisitions, want 1", len(results))
			}

			if got := results[0].Verdict; got != tc.want {
				t.Errorf("verdict = %v (%s), want %v", got, results[0].Reason, tc.want)
			}
		})
	}
}

func TestFuncDiagnostic(t *testing.T) {
	t.Parallel()

	root := lower(t, `func f(c *net.TCPConn) {
	f, err := c.File()
	if err != nil {
		return
	}
	_ = f
}`)

	a := verdict.New(catalog.Go, verdict.Config{})

	var got []verdict.Diagnostic
	if err := a.ExamineAll(context.Background(), root, verdict.SinkFunc(func(d verdict.Diagnostic) { got = append(got, d) })); err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}

	if msg, want := got[0].Message, "'*os.File' should be closed by a deferred Close call"; msg != want {
		t.Errorf("Message = %q, want %q", msg, want)
	}

	if guard := root.Body.List[1]; got[0].Fix.After != guard.End || got[0].Fix.Var != "f" {
		t.Errorf("Fix = %+v, want insertion after guard", got[0].Fix)
	}
}

func kinds(nodes []*tree.Node) []tree.Kind {
	k := make([]tree.Kind, 0, len(nodes))
	for _, n := range nodes {
		k = append(k, n.Kind)
	}

	return k
}
