// Package httpx is a small blocking HTTP/1.x client for plaintext
// servers, optionally reached through an HTTP proxy.
//
// Every hop opens a fresh TCP connection, sends one request with
// Connection: close and reads the reply into memory. The body framing is
// chunked, Content-Length or close-delimited, checked in that order.
// Redirects 302, 303 and 307 are followed up to a configurable limit;
// other 3xx replies and statuses of 400 or above come back as a
// *StatusError together with the reply head.
//
// Quick start:
//
//	c := httpx.New(httpx.WithUserAgent("probe/1.0"))
//	res, err := c.Get(ctx, "http://127.0.0.1:8080/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.StatusCode, string(res.Body))
//
// A Client carries per-instance state (cookie, referer, user agent) and
// must not run two operations at once. Host name lookups are memoized
// process-wide.
//
// Observability: plug-in Logger and Meter interfaces; see internal/obs for
// logrus, zap and Prometheus adapters.
package httpx
