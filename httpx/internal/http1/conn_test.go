package http1

import (
	"bytes"
	"io"
	"net"
	"time"
)

// scriptConn replays fixed segments, one per Read call, then reports EOF.
type scriptConn struct {
	segs    [][]byte
	written bytes.Buffer
	reads   int
	closed  bool
}

func newScriptConn(segs ...string) *scriptConn {
	c := &scriptConn{}
	for _, s := range segs {
		c.segs = append(c.segs, []byte(s))
	}
	return c
}

func (c *scriptConn) Read(p []byte) (int, error) {
	c.reads++
	if len(c.segs) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.segs[0])
	c.segs[0] = c.segs[0][n:]
	if len(c.segs[0]) == 0 {
		c.segs = c.segs[1:]
	}
	return n, nil
}

func (c *scriptConn) Write(p []byte) (int, error) { return c.written.Write(p) }
func (c *scriptConn) Close() error                { c.closed = true; return nil }
func (c *scriptConn) LocalAddr() net.Addr         { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)} }
func (c *scriptConn) RemoteAddr() net.Addr        { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 80} }
func (c *scriptConn) SetDeadline(time.Time) error      { return nil }
func (c *scriptConn) SetReadDeadline(time.Time) error  { return nil }
func (c *scriptConn) SetWriteDeadline(time.Time) error { return nil }

func scriptStream(segs ...string) (*Stream, *scriptConn) {
	c := newScriptConn(segs...)
	return NewStream(c, NewBuffer(0), 0), c
}

// splitEvery cuts s into pieces of n bytes.
func splitEvery(s string, n int) []string {
	var out []string
	for len(s) > n {
		out = append(out, s[:n])
		s = s[n:]
	}
	return append(out, s)
}
