package httpx

import (
	"encoding/base64"
	"fmt"
)

const (
	engineAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	standardAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

// EncodeBase64 encodes b with the engine alphabet ('-' and '_' in the last
// two positions) and '=' padding. Credentials in Authorization headers use
// it unless the client was built WithStandardBase64.
func EncodeBase64(b []byte) string { return encodeBase64(b, engineAlphabet) }

// DecodeBase64 reverses EncodeBase64.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("httpx: decode base64: %w", err)
	}
	return b, nil
}

func encodeBase64(b []byte, table string) string {
	out := make([]byte, 0, (len(b)+2)/3*4)
	n := len(b)
	for i := 0; i < n; i += 3 {
		var c1, c2 byte
		c0 := b[i]
		c1ok, c2ok := i+1 < n, i+2 < n
		if c1ok {
			c1 = b[i+1]
		}
		if c2ok {
			c2 = b[i+2]
		}
		out = append(out, table[c0>>2], table[(c0&0x03)<<4|c1>>4])
		if c1ok {
			out = append(out, table[(c1&0x0F)<<2|c2>>6])
		} else {
			out = append(out, '=')
		}
		if c2ok {
			out = append(out, table[c2&0x3F])
		} else {
			out = append(out, '=')
		}
	}
	return string(out)
}

// BasicAuthHeader renders a complete Basic credentials line, CRLF included,
// for the given header name.
func BasicAuthHeader(name, user, pass string) string {
	return basicAuthLine(name, user, pass, engineAlphabet)
}

func basicAuthLine(name, user, pass, table string) string {
	return name + ": Basic " + encodeBase64([]byte(user+":"+pass), table) + "\r\n"
}
