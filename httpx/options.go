package httpx

import (
	"context"
	"net"
	"time"

	"dqx0.com/go/plainhttp/internal/obs"
)

// Option configures a Client at construction time.
type Option func(*Client)

// Logger and Meter are the diagnostic sinks a Client reports to.
type (
	Logger = obs.Logger
	Meter  = obs.Meter
)

// Resolver maps a host name to a numeric address.
type Resolver interface {
	Resolve(ctx context.Context, host string) (string, error)
}

// DialFunc opens a stream connection to a numeric host:port.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// WithProxy routes every request through the HTTP proxy at host:port.
// Requests then carry absolute-form targets.
func WithProxy(host string, port int) Option {
	return func(c *Client) {
		c.proxy.host = host
		c.proxy.port = port
	}
}

// WithProxyAuth sends Basic credentials to the proxy. It has no effect
// unless WithProxy is also given.
func WithProxyAuth(user, pass string) Option {
	return func(c *Client) {
		c.proxy.user = user
		c.proxy.pass = pass
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout bounds each individual send, receive and dial. Zero keeps
// the default of 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRedirects caps how many redirects one operation follows.
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRedirects = n
		}
	}
}

// WithBufferLimit sets the receive buffer capacity, which is also the
// largest reply head the client accepts.
func WithBufferLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bufferLimit = n
		}
	}
}

// WithMaxBodyBytes fails replies whose body exceeds n bytes with
// ErrBodyTooLarge. Zero means unlimited.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxBody = n
		}
	}
}

// WithConnectRetries sets how many times a transient dial failure is
// retried on a fresh socket.
func WithConnectRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.connectRetries = n
		}
	}
}

func WithResolver(r Resolver) Option {
	return func(c *Client) {
		if r != nil {
			c.resolver = r
		}
	}
}

func WithDialer(d DialFunc) Option {
	return func(c *Client) {
		if d != nil {
			c.dial = d
		}
	}
}

func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMeter(m Meter) Option {
	return func(c *Client) {
		if m != nil {
			c.meter = m
		}
	}
}

// WithProbeURLs replaces the two targets IsInternet uses: byName when the
// name service is part of the check, byAddr when it is not.
func WithProbeURLs(byName, byAddr string) Option {
	return func(c *Client) {
		if byName != "" {
			c.probeByName = byName
		}
		if byAddr != "" {
			c.probeByAddr = byAddr
		}
	}
}

// WithStandardBase64 encodes Authorization credentials with the RFC 4648
// standard alphabet instead of the engine alphabet.
func WithStandardBase64() Option {
	return func(c *Client) { c.authAlphabet = standardAlphabet }
}
