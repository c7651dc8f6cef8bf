package httpx

import (
	"strconv"

	"dqx0.com/go/plainhttp/httpx/internal/http1"
)

// Response is a fully read reply. Body is nil when no body was fetched:
// for HEAD, for 1xx/204/304 and for any reply returned with a
// *StatusError.
type Response struct {
	Status     string // e.g. "200 OK"
	StatusCode int
	Reason     string
	Proto      string
	Header     Header
	Body       []byte
	// RawHead is the status line and header block as received, without
	// the blank line that ends it.
	RawHead []byte

	// URL is the address that produced this reply, after redirects.
	URL       string
	Redirects int
}

func newResponse(h *http1.Head, u *URL) *Response {
	status := strconv.Itoa(h.StatusCode)
	if h.Reason != "" {
		status += " " + h.Reason
	}
	return &Response{
		Status:     status,
		StatusCode: h.StatusCode,
		Reason:     h.Reason,
		Proto:      h.Proto,
		Header:     Header(h.Header),
		RawHead:    h.Raw,
		URL:        u.String(),
	}
}
