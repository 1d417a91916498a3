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

package catalog

// Java lists the channel factories of the JDK: getChannel on sockets, file streams and
// transport handlers returns a channel that has to be closed explicitly.
var Java = New(Convention{
	CloseMethod:    "close",
	Format:         "'%s' should be opened in front of a 'try' block and closed in the corresponding 'finally' block",
	Fix:            "wrap-try-finally",
	ReceiverCloses: true,
},
	Entry{"java.net.Socket", "getChannel"},
	Entry{"java.net.DatagramSocket", "getChannel"},
	Entry{"java.net.ServerSocket", "getChannel"},
	Entry{"java.io.FileInputStream", "getChannel"},
	Entry{"java.io.FileOutputStream", "getChannel"},
	Entry{"java.io.RandomAccessFile", "getChannel"},
	Entry{"com.sun.corba.se.pept.transport.EventHandler", "getChannel"},
	Entry{"sun.nio.ch.InheritedChannel", "getChannel"},
)

// Go lists the methods of package net returning a duplicated file descriptor.
// Closing the connection leaves the duplicate open.
var Go = New(Convention{
	CloseMethod: "Close",
	Format:      "'%s' should be closed by a deferred Close call",
	Fix:         "defer-close",
},
	Entry{"net.TCPConn", "File"},
	Entry{"net.UDPConn", "File"},
	Entry{"net.UnixConn", "File"},
	Entry{"net.IPConn", "File"},
	Entry{"net.TCPListener", "File"},
	Entry{"net.UnixListener", "File"},
)
