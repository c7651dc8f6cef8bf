package httpx

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"

	"dqx0.com/go/plainhttp/httpx/internal/http1"
	"dqx0.com/go/plainhttp/internal/dnscache"
	"dqx0.com/go/plainhttp/internal/obs"
)

const (
	DefaultUserAgent      = "plainhttp/1.0"
	DefaultMaxRedirects   = 10
	DefaultConnectRetries = 3
	DefaultTimeout        = http1.DefaultTimeout
	DefaultBufferLimit    = http1.DefaultBufferLimit

	defaultProbeByName = "http://www.google.com/"
	defaultProbeByAddr = "http://142.250.80.46/"
)

type proxyConfig struct {
	host       string
	port       int
	user, pass string
}

func (p proxyConfig) inUse() bool { return p.host != "" }

// Client performs one request at a time over a fresh connection per hop.
// A Client is not safe for concurrent use; run one per goroutine.
type Client struct {
	proxy proxyConfig

	userAgent string
	cookie    string
	referer   string

	timeout        time.Duration
	maxRedirects   int
	bufferLimit    int
	maxBody        int64
	connectRetries int
	authAlphabet   string

	resolver Resolver
	dial     DialFunc
	logger   obs.Logger
	meter    obs.Meter

	probeByName string
	probeByAddr string
}

// New returns a Client with defaults applied before opts.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent:      DefaultUserAgent,
		timeout:        DefaultTimeout,
		maxRedirects:   DefaultMaxRedirects,
		bufferLimit:    DefaultBufferLimit,
		connectRetries: DefaultConnectRetries,
		authAlphabet:   engineAlphabet,
		logger:         obs.NopLogger{},
		meter:          obs.NopMeter{},
		probeByName:    defaultProbeByName,
		probeByAddr:    defaultProbeByAddr,
	}
	for _, o := range opts {
		o(c)
	}
	if c.resolver == nil {
		c.resolver = dnscache.NewResolver()
	}
	if c.dial == nil {
		d := &net.Dialer{Timeout: c.timeout}
		c.dial = d.DialContext
	}
	return c
}

// SetCookie sets the Cookie header sent on later requests. Empty clears it.
func (c *Client) SetCookie(v string) { c.cookie = v }

// SetReferer sets the Referer header sent on later requests. Empty clears it.
func (c *Client) SetReferer(v string) { c.referer = v }

func (c *Client) SetUserAgent(v string) { c.userAgent = v }

// Get fetches rawURL and returns the reply with its full body.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.do(ctx, "GET", rawURL, nil)
}

// Post sends body as application/x-www-form-urlencoded.
func (c *Client) Post(ctx context.Context, rawURL string, body []byte) (*Response, error) {
	if body == nil {
		body = []byte{}
	}
	return c.do(ctx, "POST", rawURL, body)
}

// Head requests only the reply head. Redirects are followed as for Get.
func (c *Client) Head(ctx context.Context, rawURL string) (*Response, error) {
	return c.do(ctx, "HEAD", rawURL, nil)
}

// IsInternet reports whether a HEAD probe gets a status in [200,400).
// With checkDNS the probe names its host so resolution is exercised too.
func (c *Client) IsInternet(ctx context.Context, checkDNS bool) bool {
	target := c.probeByAddr
	if checkDNS {
		target = c.probeByName
	}
	res, err := c.Head(ctx, target)
	if res == nil {
		c.logger.Logf(obs.Debug, "probe %s: %v", target, err)
		return false
	}
	return res.StatusCode >= 200 && res.StatusCode < 400
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) (*Response, error) {
	start := time.Now()
	lg := obs.WithPrefix(c.logger, "op="+uuid.NewString()[:8]+" ")
	c.meter.Counter(obs.MetricRequests, 1, obs.Label{Key: "method", Value: method})

	u, err := ParseURL(rawURL)
	if err != nil {
		c.failed(lg, "url", err)
		return nil, err
	}
	ex := &exchange{c: c, log: lg, method: method, url: u, user: u.User, pass: u.Password, body: body}
	res, err := ex.run(ctx)
	c.meter.Histogram(obs.MetricRoundTripMs, float64(time.Since(start).Milliseconds()), obs.Label{Key: "method", Value: method})
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			lg.Logf(obs.Info, "%s %s -> %v", method, ex.url, err)
		} else {
			c.failed(lg, ex.stage, err)
		}
		return res, err
	}
	lg.Logf(obs.Info, "%s %s -> %d (%d bytes, %d redirects)", method, res.URL, res.StatusCode, len(res.Body), res.Redirects)
	return res, nil
}

func (c *Client) failed(lg obs.Logger, stage string, err error) {
	lg.Logf(obs.Error, "%s failed: %v", stage, err)
	c.meter.Counter(obs.MetricErrors, 1, obs.Label{Key: "stage", Value: stage})
}

func (c *Client) countRedirect(code int) {
	c.meter.Counter(obs.MetricRedirects, 1, obs.Label{Key: "code", Value: strconv.Itoa(code)})
}
