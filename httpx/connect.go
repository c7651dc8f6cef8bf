package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"

	"github.com/cenkalti/backoff/v4"

	"dqx0.com/go/plainhttp/internal/obs"
)

// connect resolves host and dials it. Transient dial failures are retried
// on a fresh socket up to connectRetries times with no delay; anything else
// fails at once.
func (c *Client) connect(ctx context.Context, lg obs.Logger, host string, port int) (net.Conn, error) {
	addr, err := c.resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	target := net.JoinHostPort(addr, strconv.Itoa(port))
	lg.Logf(obs.Debug, "connect %s (%s)", host, target)

	var conn net.Conn
	attempts := 0
	op := func() error {
		attempts++
		d, err := c.dial(ctx, "tcp", target)
		if err == nil {
			conn = d
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if !transientDialError(err) {
			return backoff.Permanent(err)
		}
		if attempts <= c.connectRetries {
			lg.Logf(obs.Warn, "connect %s attempt %d: %v; retrying", target, attempts, err)
			c.meter.Counter(obs.MetricConnectRetries, 1)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(c.connectRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConnect, target, ErrCanceled)
		}
		return nil, fmt.Errorf("%w: %s after %d attempt(s): %w", ErrConnect, target, attempts, err)
	}
	return conn, nil
}

// resolve returns host unchanged when it is a dotted quad and asks the
// resolver otherwise.
func (c *Client) resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
		return host, nil
	}
	addr, err := c.resolver.Resolve(ctx, host)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %s: %w", ErrResolve, host, ErrCanceled)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrResolve, host, err)
	}
	return addr, nil
}

func transientDialError(err error) bool {
	if errors.Is(err, syscall.ETIMEDOUT) || errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
