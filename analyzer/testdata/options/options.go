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

package options

import (
	"net"
	"os"
)

type Pipe struct{}

func (Pipe) Dup() (*os.File, error) { return nil, nil }

func register(*os.File) {}

func insideDefer(c *net.TCPConn) {
	defer c.Close()
	f, _ := c.File()
	_ = f
}

func owned(c *net.TCPConn) {
	f, err := c.File()
	if err != nil {
		return
	}

	register(f)
}

func factory(p Pipe) {
	f, _ := p.Dup() // want "deferred Close call"
	_ = f
}
