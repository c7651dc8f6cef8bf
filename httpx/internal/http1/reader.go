package http1

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

var errBadRequest = errors.New("http1: bad request")

// ParsedRequest is a request as seen by the loopback test server.
type ParsedRequest struct {
	Method     string
	RequestURI string
	Proto      string
	// Header keys are upper-cased like the client's response headers.
	Header map[string]string
	Body   []byte
}

// Reader parses requests from the server side of a connection.
type Reader struct {
	BR             *bufio.Reader
	MaxHeaderBytes int
}

// ReadRequest reads one request. Bodies must be Content-Length framed,
// which is the only framing the client sends.
func (r *Reader) ReadRequest() (*ParsedRequest, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return nil, errBadRequest
	}
	method, uri, proto := parts[0], parts[1], parts[2]
	if !strings.HasPrefix(proto, "HTTP/1.") {
		return nil, errBadRequest
	}
	hdr, err := r.readHeaders()
	if err != nil {
		return nil, err
	}
	pr := &ParsedRequest{Method: method, RequestURI: uri, Proto: proto, Header: hdr}
	if v := hdr["CONTENT-LENGTH"]; v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			return nil, errBadRequest
		}
		pr.Body = make([]byte, n)
		if _, err := io.ReadFull(r.BR, pr.Body); err != nil {
			return nil, err
		}
	}
	return pr, nil
}

func (r *Reader) readHeaders() (map[string]string, error) {
	h := make(map[string]string)
	for {
		line, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, errBadRequest
		}
		k := strings.TrimSpace(line[:i])
		if SanitizeHeaderKey(k) == "" {
			return nil, errBadRequest
		}
		h[CanonicalKey(k)] = strings.TrimSpace(line[i+1:])
	}
	return h, nil
}

func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.BR.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if r.MaxHeaderBytes > 0 && sb.Len() > r.MaxHeaderBytes {
			return "", io.ErrShortBuffer
		}
	}
	return sb.String(), nil
}
