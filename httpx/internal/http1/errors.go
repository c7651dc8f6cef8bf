package http1

import "errors"

var (
	ErrMalformedReply = errors.New("httpx: malformed reply")
	ErrTransport      = errors.New("httpx: transport failure")
	ErrCanceled       = errors.New("httpx: canceled")
	ErrBodyTooLarge   = errors.New("httpx: body too large")
	ErrBufferFull     = errors.New("httpx: receive buffer full")
)
