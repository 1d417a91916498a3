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

// Package analyzer implements the closeguard static analysis pass.
//
// # Overview
//
// CloseGuard detects files obtained from network connections and listeners
// (for example [net.TCPConn.File]) that are not reliably closed. Each call
// returns a duplicated descriptor the caller owns; forgetting to close it
// leaks the descriptor even after the connection itself is closed.
//
// A duplicate is accepted when it is returned, stored in a field or global,
// handed to a registered owner, or closed by a deferred Close call. A Close
// call that is skipped on some path does not count.
//
// # Example
//
// Before:
//
//	func handoff(c *net.TCPConn) error {
//	    f, err := c.File()  // f is never closed
//	    if err != nil {
//	        return err
//	    }
//	    return send(f.Fd())
//	}
//
// After applying closeguard's suggested fix:
//
//	func handoff(c *net.TCPConn) error {
//	    f, err := c.File()
//	    if err != nil {
//	        return err
//	    }
//	    defer f.Close()
//	    return send(f.Fd())
//	}
//
// # Configuration
//
//   - -generated: also check generated files
//   - -allow-inside-try: accept acquisitions placed directly in a deferred region
//   - -owners: functions taking ownership of a file argument
//   - -factories: additional methods returning a file, as pkg/path.Type.Method
package analyzer
