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

package java_test

import (
	"bufio"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fillmore-labs.com/closeguard/internal/catalog"
	. "fillmore-labs.com/closeguard/internal/java"
	"fillmore-labs.com/closeguard/internal/tree"
	"fillmore-labs.com/closeguard/internal/verdict"
)

// leaks analyzes the Java sources and returns the lines of reported leaks in
// the first source together with the lines marked with a "// leak" comment.
func leaks(t *testing.T, cfg verdict.Config, sources ...string) (got, want []int) {
	t.Helper()

	fset := token.NewFileSet()
	h := NewHierarchy()

	files := make([]*File, 0, len(sources))
	for i, src := range sources {
		f, err := Parse(t.Context(), fset, "Test"+string(rune('A'+i))+".java", []byte(src))
		require.NoError(t, err)
		t.Cleanup(f.Close)

		require.NoError(t, h.Declare(f))
		files = append(files, f)
	}

	h.Freeze()

	a := verdict.New(catalog.Java, cfg)
	sink := verdict.SinkFunc(func(d verdict.Diagnostic) {
		if p := fset.Position(d.Pos); p.Filename == files[0].Path {
			got = append(got, p.Line)
		}
	})

	for _, root := range Lower(h, files[0]) {
		require.NoError(t, a.ExamineAll(t.Context(), root, sink))
	}

	sc := bufio.NewScanner(strings.NewReader(sources[0]))
	for line := 1; sc.Scan(); line++ {
		if strings.Contains(sc.Text(), "// leak") {
			want = append(want, line)
		}
	}

	return got, want
}

func TestLeaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{
			name: "returned",
			src: `import java.net.Socket;
import java.nio.channels.SocketChannel;

class A {
    SocketChannel open(String host) throws Exception {
        Socket s = new Socket(host, 80);
        SocketChannel c = s.getChannel();
        return c;
    }

    SocketChannel direct(Socket s) {
        return (SocketChannel) (s.getChannel());
    }
}
`,
		},
		{
			name: "not closed",
			src: `import java.net.Socket;
import java.nio.ByteBuffer;
import java.nio.channels.SocketChannel;

class A {
    void read(Socket socket, ByteBuffer buf) throws Exception {
        SocketChannel c = socket.getChannel(); // leak
        c.read(buf);
    }

    void chained(Socket socket, ByteBuffer buf) throws Exception {
        socket.getChannel().read(buf); // leak
    }
}
`,
		},
		{
			name: "closed in finally",
			src: `import java.net.Socket;
import java.nio.channels.Channel;

class A {
    void declaredInside(Socket socket) throws Exception {
        try {
            Channel c = socket.getChannel();
            use(c);
        } finally {
            c.close();
        }
    }

    void declaredBefore(Socket socket) throws Exception {
        Channel c = socket.getChannel();
        try {
            use(c);
        } finally {
            c.close();
        }
    }

    void use(Channel c) {}
}
`,
		},
		{
			name: "conditional close",
			src: `import java.net.Socket;
import java.nio.channels.Channel;

class A {
    void guarded(Socket socket) throws Exception {
        Channel c = socket.getChannel(); // leak
        try {
            use(c);
        } finally {
            if (c != null) {
                c.close();
            }
        }
    }

    void inCatch(Socket socket) throws Exception {
        Channel c = null;
        try {
            c = socket.getChannel(); // leak
            use(c);
        } catch (Exception e) {
            c.close();
        }
    }

    void use(Channel c) {}
}
`,
		},
		{
			name: "nested try",
			src: `import java.io.FileInputStream;
import java.io.IOException;
import java.nio.channels.FileChannel;

class A {
    void nested(FileInputStream in) throws Exception {
        try {
            try {
                FileChannel c = in.getChannel();
                c.size();
            } catch (IOException e) {
                throw e;
            }
        } finally {
            c.close();
        }
    }
}
`,
		},
		{
			name: "stored",
			src: `import java.io.RandomAccessFile;
import java.nio.channels.FileChannel;

class A {
    private FileChannel channel;
    private final FileChannel init = new RandomAccessFile("x", "r").getChannel();

    void store(RandomAccessFile f) {
        this.channel = f.getChannel();
    }

    void later(RandomAccessFile f) {
        FileChannel c = f.getChannel();
        channel = c;
    }
}
`,
		},
		{
			name: "try with resources",
			src: `import java.net.DatagramSocket;
import java.nio.channels.DatagramChannel;

class A {
    void resources(DatagramSocket s) throws Exception {
        try (DatagramChannel c = s.getChannel()) {
            c.isOpen();
        }
    }

    void existing(DatagramSocket s) throws Exception {
        DatagramChannel c = s.getChannel();
        try (c) {
            c.isOpen();
        }
    }
}
`,
		},
		{
			name: "receiver closed",
			src: `import java.net.ServerSocket;
import java.nio.channels.ServerSocketChannel;

class A {
    void accept() throws Exception {
        ServerSocket s = new ServerSocket(8080);
        try {
            ServerSocketChannel c = s.getChannel();
            c.accept();
        } finally {
            s.close();
        }
    }
}
`,
		},
		{
			name: "subclass",
			src: `import javax.net.ssl.SSLSocket;

class A {
    static class Tunnel extends java.net.MulticastSocket {}

    void ssl(SSLSocket s) {
        use(s.getChannel()); // leak
    }

    void tunnel() throws Exception {
        new Tunnel().getChannel(); // leak
    }

    void use(Object o) {}
}
`,
		},
		{
			name: "lambda",
			src: `import java.io.FileOutputStream;
import java.nio.channels.FileChannel;
import java.util.function.Supplier;

class A {
    Supplier<FileChannel> supplier(FileOutputStream out) {
        return () -> out.getChannel();
    }

    Runnable captured(FileOutputStream out) {
        FileChannel c = out.getChannel();
        return () -> c.force(true);
    }

    void inside(FileOutputStream out) {
        Runnable r = () -> {
            FileChannel c = out.getChannel(); // leak
            c.position();
        };
        r.run();
    }
}
`,
		},
		{
			name: "null check returned",
			src: `import java.net.Socket;
import java.nio.channels.Channel;
import java.nio.channels.SocketChannel;

class A {
    boolean check(Socket socket) {
        SocketChannel c = socket.getChannel(); // leak
        return c != null;
    }

    boolean copied(Socket socket) {
        SocketChannel c = socket.getChannel(); // leak
        boolean ok = c == null;
        return ok;
    }

    SocketChannel chosen(Socket socket, SocketChannel fallback) {
        SocketChannel c = socket.getChannel();
        return c != null ? c : fallback;
    }

    Channel[] array(Socket socket) {
        SocketChannel c = socket.getChannel();
        return new Channel[] {c};
    }
}
`,
		},
		{
			name: "param rebinding",
			src: `import java.net.Socket;
import java.nio.channels.Channel;

class A {
    void rebind(Socket s, Channel c) {
        c = s.getChannel(); // leak
        c.isOpen();
    }
}
`,
		},
		{
			name: "exit before close in finally",
			src: `import java.net.Socket;
import java.nio.channels.Channel;
import java.util.List;

class A {
    void early(Socket socket, boolean flag) throws Exception {
        Channel c = socket.getChannel(); // leak
        try {
            use(c);
        } finally {
            if (flag) {
                return;
            }
            c.close();
        }
    }

    void drained(Socket socket, List<Object> xs) throws Exception {
        Channel c = socket.getChannel();
        try {
            use(c);
        } finally {
            for (Object x : xs) {
                if (x == null) {
                    break;
                }
            }
            c.close();
        }
    }

    void use(Channel c) {}
}
`,
		},
		{
			name: "unrelated",
			src: `class A {
    interface Holder { Object getChannel(); }

    void other(Holder h) {
        h.getChannel();
    }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, want := leaks(t, verdict.Config{}, tt.src)
			assert.Equal(t, want, got)
		})
	}
}

func TestAllowInsideTry(t *testing.T) {
	t.Parallel()

	const src = `import java.net.Socket;
import java.nio.channels.Channel;

class A {
    void inside(Socket socket) throws Exception {
        try {
            Channel c = socket.getChannel(); // leak
            use(c);
        } catch (Exception e) {
            throw e;
        }
    }

    void use(Channel c) {}
}
`

	got, want := leaks(t, verdict.Config{}, src)
	assert.Equal(t, want, got)

	got, _ = leaks(t, verdict.Config{AllowInsideTry: true}, src)
	assert.Empty(t, got)
}

func TestOwners(t *testing.T) {
	t.Parallel()

	const src = `package p;

import java.net.Socket;

class A {
    private final Pool pool = new Pool();

    void register(Socket s) {
        pool.adopt(s.getChannel());
    }
}
`

	const pool = `package p;

class Pool {
    void adopt(java.nio.channels.Channel c) {}
}
`

	got, _ := leaks(t, verdict.Config{}, src, pool)
	assert.Len(t, got, 1)

	got, _ = leaks(t, verdict.Config{Owners: []string{"p.Pool.adopt"}}, src, pool)
	assert.Empty(t, got)
}

func TestCrossFileHierarchy(t *testing.T) {
	t.Parallel()

	const src = `package p.client;

import p.net.*;

class A {
    void connect(Endpoint e) {
        e.getChannel(); // leak
    }
}
`

	const endpoint = `package p.net;

public class Endpoint extends java.net.Socket {}
`

	got, want := leaks(t, verdict.Config{}, src, endpoint)
	assert.Equal(t, want, got)
}

func TestMessage(t *testing.T) {
	t.Parallel()

	const src = `class A {
    void leak(java.io.FileInputStream in) {
        in.getChannel();
    }
}
`

	fset := token.NewFileSet()
	f, err := Parse(t.Context(), fset, "A.java", []byte(src))
	require.NoError(t, err)
	defer f.Close()

	h := NewHierarchy()
	require.NoError(t, h.Declare(f))
	h.Freeze()

	var diags []verdict.Diagnostic
	a := verdict.New(catalog.Java, verdict.Config{})

	for _, root := range Lower(h, f) {
		require.NoError(t, a.ExamineAll(t.Context(), root, verdict.SinkFunc(func(d verdict.Diagnostic) { diags = append(diags, d) })))
	}

	require.Len(t, diags, 1)
	assert.Equal(t, "'FileChannel' should be opened in front of a 'try' block and closed in the corresponding 'finally' block", diags[0].Message)

	pos := fset.Position(diags[0].Pos)
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 9, pos.Column)
}

func TestParseError(t *testing.T) {
	t.Parallel()

	_, err := Parse(t.Context(), token.NewFileSet(), "Broken.java", []byte("class A { void m( }\n"))
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "Broken.java:1:")
}

func TestHierarchy(t *testing.T) {
	t.Parallel()

	const src = `package p;

import java.net.*;
import javax.net.ssl.SSLSocket;

public class Secure extends SSLSocket {
    class Inner extends Socket {}
}
`

	fset := token.NewFileSet()
	f, err := Parse(t.Context(), fset, "Secure.java", []byte(src))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "p", f.Package())

	h := NewHierarchy()
	require.NoError(t, h.Declare(f))
	h.Freeze()

	require.ErrorIs(t, h.Declare(f), ErrFrozen)

	tests := []struct {
		class, super string
	}{
		{"p.Secure", "java.net.Socket"},
		{"p.Secure", "javax.net.ssl.SSLSocket"},
		{"p.Secure.Inner", "java.net.Socket"},
		{"java.net.MulticastSocket", "java.net.DatagramSocket"},
		{"java.nio.channels.SocketChannel", "java.io.Closeable"},
	}

	for _, tt := range tests {
		c, ok := h.Lookup(tt.class)
		require.True(t, ok, "class %s", tt.class)
		assert.True(t, tree.IsSubtype(c, tt.super), "%s should extend %s", tt.class, tt.super)
	}

	c, _ := h.Lookup("p.Secure.Inner")
	assert.Equal(t, "Inner", c.Presentable())
}
