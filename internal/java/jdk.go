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

package java

// jdkClass describes a platform class the hierarchy knows without source.
type jdkClass struct {
	name    string
	supers  []string
	methods map[string]string // method name to return type
}

const (
	closeable  = "java.io.Closeable"
	channel    = "java.nio.channels.Channel"
	selectable = "java.nio.channels.SelectableChannel"
)

var jdk = [...]jdkClass{
	{name: "java.lang.Object"},
	{name: "java.lang.AutoCloseable", supers: []string{"java.lang.Object"}},
	{name: "java.lang.String", supers: []string{"java.lang.Object"}},
	{name: "java.lang.Thread", supers: []string{"java.lang.Object"}},
	{name: closeable, supers: []string{"java.lang.AutoCloseable"}},

	{name: channel, supers: []string{closeable}},
	{name: "java.nio.channels.ByteChannel", supers: []string{channel}},
	{name: "java.nio.channels.ReadableByteChannel", supers: []string{channel}},
	{name: "java.nio.channels.WritableByteChannel", supers: []string{channel}},
	{name: "java.nio.channels.NetworkChannel", supers: []string{channel}},
	{name: selectable, supers: []string{channel}},
	{name: "java.nio.channels.SocketChannel", supers: []string{selectable, "java.nio.channels.ByteChannel", "java.nio.channels.NetworkChannel"}},
	{name: "java.nio.channels.ServerSocketChannel", supers: []string{selectable, "java.nio.channels.NetworkChannel"}},
	{name: "java.nio.channels.DatagramChannel", supers: []string{selectable, "java.nio.channels.ByteChannel", "java.nio.channels.NetworkChannel"}},
	{name: "java.nio.channels.FileChannel", supers: []string{"java.nio.channels.ByteChannel"}},

	{name: "java.io.InputStream", supers: []string{closeable}},
	{name: "java.io.OutputStream", supers: []string{closeable}},
	{name: "java.io.FileInputStream", supers: []string{"java.io.InputStream"}, methods: map[string]string{"getChannel": "java.nio.channels.FileChannel"}},
	{name: "java.io.FileOutputStream", supers: []string{"java.io.OutputStream"}, methods: map[string]string{"getChannel": "java.nio.channels.FileChannel"}},
	{name: "java.io.RandomAccessFile", supers: []string{closeable}, methods: map[string]string{"getChannel": "java.nio.channels.FileChannel"}},

	{name: "java.net.Socket", supers: []string{closeable}, methods: map[string]string{
		"getChannel":      "java.nio.channels.SocketChannel",
		"getInputStream":  "java.io.InputStream",
		"getOutputStream": "java.io.OutputStream",
	}},
	{name: "javax.net.ssl.SSLSocket", supers: []string{"java.net.Socket"}},
	{name: "java.net.ServerSocket", supers: []string{closeable}, methods: map[string]string{
		"getChannel": "java.nio.channels.ServerSocketChannel",
		"accept":     "java.net.Socket",
	}},
	{name: "javax.net.ssl.SSLServerSocket", supers: []string{"java.net.ServerSocket"}},
	{name: "java.net.DatagramSocket", supers: []string{closeable}, methods: map[string]string{"getChannel": "java.nio.channels.DatagramChannel"}},
	{name: "java.net.MulticastSocket", supers: []string{"java.net.DatagramSocket"}},

	{name: "com.sun.corba.se.pept.transport.EventHandler", methods: map[string]string{"getChannel": selectable}},
	{name: "sun.nio.ch.InheritedChannel", methods: map[string]string{"getChannel": channel}},
}
