package http1

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var headTerminator = []byte("\r\n\r\n")

// Head is a parsed status line plus header block.
type Head struct {
	Proto      string
	StatusCode int
	Reason     string
	// Header keys are upper-cased; a repeated name keeps the last value.
	Header map[string]string
	// Raw holds the header block as received, without the terminator.
	Raw []byte
}

// ParseHead receives until the header terminator is buffered, parses the
// head and leaves any bytes past the terminator in the buffer as the start
// of the body. method relaxes the protocol check for HEAD requests.
// Interim 1xx heads other than 101 are discarded and the next head is read.
func ParseHead(ctx context.Context, s *Stream, method string) (*Head, error) {
	buf := s.Buffer()
	scanned := 0
	for {
		data := buf.Bytes()
		if i := bytes.Index(data[scanned:], headTerminator); i >= 0 {
			end := scanned + i
			raw := append([]byte(nil), data[:end]...)
			buf.Consume(end + len(headTerminator))
			h, err := parseHead(raw, method)
			if err != nil || !interim(h.StatusCode) {
				return h, err
			}
			scanned = 0
			continue
		}
		if len(data) >= len(headTerminator) {
			scanned = len(data) - len(headTerminator) + 1
		}
		if buf.Free() == 0 {
			return nil, fmt.Errorf("%w: no end of headers within %d bytes", ErrMalformedReply, buf.Limit())
		}
		if _, err := s.Receive(ctx, -1); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: connection closed before end of headers", ErrMalformedReply)
			}
			return nil, err
		}
	}
}

func parseHead(raw []byte, method string) (*Head, error) {
	text := string(raw)
	statusLine, rest, _ := strings.Cut(text, "\n")
	statusLine = strings.TrimRight(statusLine, "\r")

	proto, afterProto, ok := strings.Cut(statusLine, " ")
	if !ok {
		return nil, fmt.Errorf("%w: bad status line %q", ErrMalformedReply, statusLine)
	}
	code, reason, _ := strings.Cut(afterProto, " ")
	if method != "HEAD" && proto != "HTTP/1.0" && proto != "HTTP/1.1" {
		return nil, fmt.Errorf("%w: bad protocol %q", ErrMalformedReply, proto)
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 100 {
		return nil, fmt.Errorf("%w: bad status code %q", ErrMalformedReply, code)
	}

	h := &Head{
		Proto:      proto,
		StatusCode: n,
		Reason:     reason,
		Header:     make(map[string]string),
		Raw:        raw,
	}
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimRight(line, "\r")
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		h.Header[CanonicalKey(line[:i])] = strings.TrimSpace(line[i+1:])
	}
	return h, nil
}

func interim(status int) bool {
	return status >= 100 && status < 200 && status != 101
}

// CanonicalKey is the header map key for name.
func CanonicalKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NoBody reports whether a response to method with this status carries no
// body at all.
func NoBody(status int, method string) bool {
	if method == "HEAD" {
		return true
	}
	if status >= 100 && status < 200 {
		return true
	}
	return status == 204 || status == 304
}
