package http1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultTimeout bounds every Send and Receive call.
const DefaultTimeout = 30 * time.Second

var aLongTimeAgo = time.Unix(1, 0)

// Stream is the send/receive layer over one TCP connection. All calls
// block for at most the configured timeout and return early with
// ErrCanceled when the context is canceled.
type Stream struct {
	conn    net.Conn
	buf     *Buffer
	timeout time.Duration
}

// NewStream wraps conn. A nil buf gets a buffer of DefaultBufferLimit and
// a non-positive timeout means DefaultTimeout.
func NewStream(conn net.Conn, buf *Buffer, timeout time.Duration) *Stream {
	if buf == nil {
		buf = NewBuffer(DefaultBufferLimit)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Stream{conn: conn, buf: buf, timeout: timeout}
}

// Buffer returns the receive buffer.
func (s *Stream) Buffer() *Buffer { return s.buf }

// Close closes the connection.
func (s *Stream) Close() error { return s.conn.Close() }

// Send writes all of p.
func (s *Stream) Send(ctx context.Context, p []byte) error {
	stop, err := s.arm(ctx, s.conn.SetWriteDeadline)
	if err != nil {
		return err
	}
	defer stop()
	written := 0
	for written < len(p) {
		n, err := s.conn.Write(p[written:])
		written += n
		if err != nil {
			return s.fail(ctx, "send", err)
		}
	}
	return nil
}

// Receive appends incoming bytes to the buffer.
//
// With n < 0 the request is clamped to the free space and the call returns
// as soon as any bytes arrive. With n >= 0 (clamped likewise) it keeps
// reading until n bytes arrived. A peer that closes before sending
// anything yields io.EOF; closing part way through a bounded receive is
// ErrTransport.
func (s *Stream) Receive(ctx context.Context, n int) (int, error) {
	free := s.buf.Free()
	if free == 0 {
		return 0, ErrBufferFull
	}
	stop, err := s.arm(ctx, s.conn.SetReadDeadline)
	if err != nil {
		return 0, err
	}
	defer stop()

	if n < 0 {
		for {
			m, err := s.conn.Read(s.buf.writable(free))
			s.buf.commit(m)
			if m > 0 {
				return m, nil
			}
			if errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			if err != nil {
				return 0, s.fail(ctx, "receive", err)
			}
		}
	}

	if n > free {
		n = free
	}
	total := 0
	for total < n {
		m, err := s.conn.Read(s.buf.writable(n - total))
		s.buf.commit(m)
		total += m
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			if total == 0 {
				return 0, io.EOF
			}
			if total == n {
				return total, nil
			}
			return total, fmt.Errorf("%w: receive: %w", ErrTransport, io.ErrUnexpectedEOF)
		}
		return total, s.fail(ctx, "receive", err)
	}
	return total, nil
}

// arm applies the call deadline and makes context cancellation interrupt
// the pending I/O. The returned stop must be called when the I/O is done.
func (s *Stream) arm(ctx context.Context, set func(time.Time) error) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, canceledOrTimeout(err)
	}
	deadline := time.Now().Add(s.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := set(deadline); err != nil {
		return nil, fmt.Errorf("%w: set deadline: %w", ErrTransport, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = set(aLongTimeAgo) })
	if err := ctx.Err(); err != nil {
		stop()
		return nil, canceledOrTimeout(err)
	}
	return func() { stop() }, nil
}

func (s *Stream) fail(ctx context.Context, op string, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return canceledOrTimeout(cerr)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}

// canceledOrTimeout keeps user cancellation apart from deadline expiry.
func canceledOrTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}
