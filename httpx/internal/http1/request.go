package http1

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	formContentType = "application/x-www-form-urlencoded"
	defaultAccept   = "*/*"
	defaultLanguage = "en-us"
)

// RequestHead carries everything written for one request.
type RequestHead struct {
	Method string
	// Target is the absolute URL when talking to a proxy, the path
	// otherwise.
	Target    string
	Host      string
	UserAgent string
	Referer   string
	Cookie    string
	// Body is sent with a Content-Length when non-nil.
	Body []byte
	// ProxyAuthLine and AuthLine are complete header lines including CRLF.
	ProxyAuthLine string
	AuthLine      string
}

// Bytes renders the request line, the header block and the body.
func (r *RequestHead) Bytes() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", r.Method, r.Target)
	if r.Method == "POST" {
		writeHeader(&b, "Content-Type", formContentType)
	} else {
		writeHeader(&b, "Accept", defaultAccept)
		writeHeader(&b, "Accept-Language", defaultLanguage)
	}
	writeHeader(&b, "Host", r.Host)
	writeHeader(&b, "User-Agent", r.UserAgent)
	if r.Referer != "" {
		writeHeader(&b, "Referer", r.Referer)
	}
	if r.Cookie != "" {
		writeHeader(&b, "Cookie", r.Cookie)
	}
	if r.Body != nil {
		writeHeader(&b, "Content-Length", strconv.Itoa(len(r.Body)))
	}
	b.WriteString(r.ProxyAuthLine)
	b.WriteString(r.AuthLine)
	writeHeader(&b, "Connection", "close")
	b.WriteString("\r\n")
	b.Write(r.Body)
	return b.Bytes()
}

func writeHeader(b *bytes.Buffer, name, value string) {
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(SanitizeHeaderValue(value))
	b.WriteString("\r\n")
}

// SanitizeHeaderKey ensures header name is a valid token; returns empty string if invalid.
func SanitizeHeaderKey(k string) string {
	if k == "" {
		return ""
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
			continue
		default:
			return ""
		}
	}
	return k
}

// SanitizeHeaderValue removes CR/LF and control chars except HTAB.
func SanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
