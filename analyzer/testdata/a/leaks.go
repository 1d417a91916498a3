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

package a

import (
	"net"
	"os"
)

func use(*os.File) error { return nil }

func deferred(c *net.TCPConn) error {
	f, err := c.File()
	if err != nil {
		return err
	}
	defer f.Close()

	return use(f)
}

func leaked(c *net.TCPConn) error {
	f, err := c.File() // want "'\\*os\\.File' should be closed by a deferred Close call"
	if err != nil {
		return err
	}

	return use(f)
}

func returned(c *net.UnixConn) (*os.File, error) {
	return c.File()
}

func discarded(l *net.TCPListener) {
	_, _ = l.File() // want "deferred Close call"
}

func lateDefer(c *net.TCPConn) error {
	f, err := c.File() // want "deferred Close call"
	if err != nil {
		return err
	}

	if err := use(f); err != nil {
		return err
	}
	defer f.Close()

	return nil
}

func closedInline(c *net.IPConn) error {
	f, err := c.File()
	if err != nil {
		return err
	}

	return f.Close()
}

func deferredLiteral(c *net.UDPConn) (err error) {
	f, err := c.File()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return use(f)
}

func conditionalClose(c *net.UnixConn) {
	f, _ := c.File() // want "deferred Close call"
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()
}

func goroutine(c *net.TCPConn) {
	f, err := c.File()
	if err != nil {
		return
	}

	go func() {
		defer f.Close()
		_ = use(f)
	}()
}

type conn struct{ file *os.File }

func (c *conn) open(tc *net.TCPConn) (err error) {
	c.file, err = tc.File()

	return err
}

var global *os.File

func toGlobal(c *net.TCPConn) {
	global, _ = c.File()
}

type wrapped struct{ *net.UnixConn }

func embedded(w wrapped) {
	f, err := w.File() // want "deferred Close call"
	if err != nil {
		panic(err)
	}

	_ = use(f)
}

func suppressed(c *net.TCPConn) {
	f, _ := c.File() //nolint:closeguard
	_ = use(f)
}

//nolint:closeguard
func suppressedFunc(c *net.TCPConn) {
	f, _ := c.File()
	_ = use(f)
}

func nilCheckReturned(c *net.TCPConn) bool {
	f, _ := c.File() // want "deferred Close call"

	return f != nil
}

func paramRebound(c *net.TCPConn, f *os.File) {
	f, _ = c.File() // want "deferred Close call"
	_ = use(f)
}

func namedResult(c *net.TCPConn) (f *os.File, err error) {
	f, err = c.File()

	return
}

func wrappedReturn(c *net.TCPConn) *conn {
	f, _ := c.File()

	return &conn{file: f}
}

func deferredEarlyExit(c *net.TCPConn, skip bool) {
	f, _ := c.File() // want "deferred Close call"
	defer func() {
		if skip {
			return
		}
		_ = f.Close()
	}()
}
