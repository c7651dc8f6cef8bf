package httpx

import (
	"context"
	"fmt"

	"dqx0.com/go/plainhttp/httpx/internal/http1"
	"dqx0.com/go/plainhttp/internal/obs"
)

// exchange is the state of one Get/Post/Head call across redirect hops.
type exchange struct {
	c      *Client
	log    obs.Logger
	method string
	url    *URL
	user   string
	pass   string
	body   []byte

	hops  int
	stage string
}

// run performs hops until a final reply, following redirects the table in
// redirectMethod accepts.
func (ex *exchange) run(ctx context.Context) (*Response, error) {
	for {
		res, err := ex.roundTrip(ctx)
		if err != nil {
			return nil, err
		}
		res.Redirects = ex.hops
		switch {
		case res.StatusCode < 300:
			return res, nil
		case res.StatusCode >= 400:
			return res, &StatusError{Code: res.StatusCode, Reason: res.Reason}
		}

		method, ok := redirectMethod(res.StatusCode, ex.method)
		if !ok {
			return res, &StatusError{Code: res.StatusCode, Reason: res.Reason}
		}
		ex.stage = "redirect"
		loc := res.Header.Get("Location")
		if loc == "" {
			return nil, fmt.Errorf("%w: %d without Location", ErrMalformedReply, res.StatusCode)
		}
		if ex.hops >= ex.c.maxRedirects {
			return nil, fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, ex.hops)
		}
		next, err := ParseURL(resolveLocation(ex.url, loc))
		if err != nil {
			return nil, err
		}
		ex.log.Logf(obs.Info, "%d %s %s -> %s %s", res.StatusCode, ex.method, ex.url, method, next)
		ex.c.countRedirect(res.StatusCode)
		ex.follow(method, next)
	}
}

// follow retargets the exchange. Credentials carried by the new URL win;
// otherwise the previous ones are kept only for the same host and port.
func (ex *exchange) follow(method string, next *URL) {
	if next.User != "" {
		ex.user, ex.pass = next.User, next.Password
	} else if !next.sameEndpoint(ex.url) {
		ex.user, ex.pass = "", ""
	}
	if method == "GET" {
		ex.body = nil
	}
	ex.method = method
	ex.url = next
	ex.hops++
}

// roundTrip sends one request on a fresh connection and reads the reply.
// The body is read only for statuses below 300 and only when the method
// and status allow one.
func (ex *exchange) roundTrip(ctx context.Context) (*Response, error) {
	c := ex.c
	host, port := ex.url.Host, ex.url.Port
	if c.proxy.inUse() {
		host, port = c.proxy.host, c.proxy.port
	}

	ex.stage = "connect"
	conn, err := c.connect(ctx, ex.log, host, port)
	if err != nil {
		return nil, err
	}
	s := http1.NewStream(conn, http1.NewBuffer(c.bufferLimit), c.timeout)
	defer s.Close()

	ex.stage = "send"
	if err := s.Send(ctx, ex.requestHead().Bytes()); err != nil {
		return nil, err
	}

	ex.stage = "head"
	h, err := http1.ParseHead(ctx, s, ex.method)
	if err != nil {
		return nil, err
	}
	res := newResponse(h, ex.url)
	ex.log.Logf(obs.Debug, "%s %s: %s %s", ex.method, ex.url, h.Proto, res.Status)
	if h.StatusCode >= 300 || http1.NoBody(h.StatusCode, ex.method) {
		return res, nil
	}

	ex.stage = "body"
	ex.log.Logf(obs.Debug, "reading %s body", http1.FramingOf(h.Header))
	body, err := http1.ReadBody(ctx, s, h.Header, c.maxBody)
	if err != nil {
		return nil, err
	}
	res.Body = body
	return res, nil
}

func (ex *exchange) requestHead() *http1.RequestHead {
	c := ex.c
	rh := &http1.RequestHead{
		Method:    ex.method,
		Target:    ex.url.Path,
		Host:      ex.url.HostHeader(),
		UserAgent: c.userAgent,
		Referer:   c.referer,
		Cookie:    c.cookie,
		Body:      ex.body,
	}
	if c.proxy.inUse() {
		rh.Target = ex.url.String()
		if c.proxy.user != "" {
			rh.ProxyAuthLine = basicAuthLine("Proxy-Authorization", c.proxy.user, c.proxy.pass, c.authAlphabet)
		}
	}
	if ex.user != "" {
		rh.AuthLine = basicAuthLine("Authorization", ex.user, ex.pass, c.authAlphabet)
	}
	return rh
}
