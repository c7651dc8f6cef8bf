// Package httpxtest runs scripted HTTP/1.x servers on loopback for tests
// of the httpx client. Replies are raw bytes, written segment by segment,
// so tests control framing and packet boundaries exactly.
package httpxtest

import (
	"bufio"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"dqx0.com/go/plainhttp/httpx/internal/http1"
)

// Request is one request as received by a Server. Header keys are
// upper-cased.
type Request struct {
	Method string
	Target string
	Proto  string
	Header map[string]string
	Body   []byte
}

// Reply is written back after a request is read. Each segment goes out
// in its own Write, separated by Pause. With Hang set nothing is written
// and the connection stays open until the server closes.
type Reply struct {
	Segments [][]byte
	Pause    time.Duration
	Hang     bool
}

// Handler scripts the reply to a request.
type Handler func(r *Request) Reply

// Server accepts connections, reads one request each, answers it and
// closes the connection.
type Server struct {
	URL  string // http://127.0.0.1:port
	Host string
	Port int

	ln      net.Listener
	handler Handler
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup

	mu   sync.Mutex
	reqs []*Request
}

// NewServer starts a Server on 127.0.0.1 and closes it when the test ends.
func NewServer(t testing.TB, h Handler) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	s := &Server{
		URL:     "http://127.0.0.1:" + strconv.Itoa(addr.Port),
		Host:    "127.0.0.1",
		Port:    addr.Port,
		ln:      ln,
		handler: h,
		done:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.serveConn(c)
	}
}

func (s *Server) serveConn(c net.Conn) {
	defer s.wg.Done()
	defer c.Close()
	rd := &http1.Reader{BR: bufio.NewReader(c), MaxHeaderBytes: 8 << 10}
	pr, err := rd.ReadRequest()
	if err != nil {
		return
	}
	req := &Request{Method: pr.Method, Target: pr.RequestURI, Proto: pr.Proto, Header: pr.Header, Body: pr.Body}
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()

	reply := s.handler(req)
	if reply.Hang {
		<-s.done
		return
	}
	for i, seg := range reply.Segments {
		if i > 0 && reply.Pause > 0 {
			time.Sleep(reply.Pause)
		}
		if _, err := c.Write(seg); err != nil {
			return
		}
	}
}

// Requests returns the requests received so far, in arrival order.
func (s *Server) Requests() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Request(nil), s.reqs...)
}

// Close stops accepting, releases hanging connections and waits for all
// handlers to return. It is safe to call more than once.
func (s *Server) Close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.ln.Close()
		s.wg.Wait()
	})
}

// Raw replies with the given segments verbatim.
func Raw(segs ...string) Reply {
	r := Reply{}
	for _, seg := range segs {
		r.Segments = append(r.Segments, []byte(seg))
	}
	return r
}

// Status replies with a Content-Length framed response.
func Status(code int, hdr map[string]string, body string) Reply {
	h := make(map[string]string, len(hdr)+1)
	for k, v := range hdr {
		h[k] = v
	}
	h["Content-Length"] = strconv.Itoa(len(body))
	return Reply{Segments: [][]byte{http1.ResponseBytes(code, h, []byte(body))}}
}

// Chunked replies with one chunk per element of chunks.
func Chunked(code int, chunks ...string) Reply {
	cs := make([][]byte, len(chunks))
	for i, c := range chunks {
		cs[i] = []byte(c)
	}
	return Reply{Segments: [][]byte{http1.ChunkedResponseBytes(code, nil, cs...)}}
}

// Redirect replies with code and a Location header. An empty location
// omits the header.
func Redirect(code int, location string) Reply {
	hdr := map[string]string{}
	if location != "" {
		hdr["Location"] = location
	}
	return Status(code, hdr, "")
}
