package http1

import (
	"bytes"
	"fmt"
	"sort"
)

// ResponseBytes renders a close-delimited or Content-Length framed
// response. Header names are written in sorted order so replies are
// reproducible.
func ResponseBytes(status int, hdr map[string]string, body []byte) []byte {
	var b bytes.Buffer
	startResponse(&b, status, hdr)
	b.Write(body)
	return b.Bytes()
}

// ChunkedResponseBytes renders a response whose body is sent as one chunk
// per element of chunks, followed by the terminating zero-length chunk.
func ChunkedResponseBytes(status int, hdr map[string]string, chunks ...[]byte) []byte {
	h := make(map[string]string, len(hdr)+1)
	for k, v := range hdr {
		h[k] = v
	}
	delete(h, "Content-Length")
	h["Transfer-Encoding"] = "chunked"
	var b bytes.Buffer
	startResponse(&b, status, h)
	for _, c := range chunks {
		WriteChunk(&b, c)
	}
	EndChunked(&b)
	return b.Bytes()
}

func startResponse(b *bytes.Buffer, status int, hdr map[string]string) {
	fmt.Fprintf(b, "HTTP/1.1 %d %s\r\n", status, defaultReason(status))
	keys := make([]string, 0, len(hdr))
	for k := range hdr {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s: %s\r\n", k, SanitizeHeaderValue(hdr[k]))
	}
	b.WriteString("\r\n")
}

// WriteChunk writes one chunk for chunked transfer encoding.
func WriteChunk(b *bytes.Buffer, p []byte) {
	if len(p) == 0 {
		return
	}
	fmt.Fprintf(b, "%x\r\n", len(p))
	b.Write(p)
	b.WriteString("\r\n")
}

// EndChunked writes the terminating zero-length chunk.
func EndChunked(b *bytes.Buffer) {
	b.WriteString("0\r\n\r\n")
}

func defaultReason(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 303:
		return "See Other"
	case 304:
		return "Not Modified"
	case 307:
		return "Temporary Redirect"
	case 308:
		return "Permanent Redirect"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 407:
		return "Proxy Authentication Required"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	default:
		return "Status"
	}
}
