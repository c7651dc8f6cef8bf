package http1

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Framing is how a response body is delimited.
type Framing int

const (
	FramingClose Framing = iota
	FramingLength
	FramingChunked
)

func (f Framing) String() string {
	switch f {
	case FramingChunked:
		return "chunked"
	case FramingLength:
		return "content-length"
	default:
		return "close-delimited"
	}
}

// FramingOf picks the strategy from the header map: chunked transfer
// coding wins over Content-Length, which wins over read-until-close.
func FramingOf(header map[string]string) Framing {
	if strings.Contains(strings.ToLower(header["TRANSFER-ENCODING"]), "chunked") {
		return FramingChunked
	}
	if header["CONTENT-LENGTH"] != "" {
		return FramingLength
	}
	return FramingClose
}

// ReadBody reads the whole body using the framing selected by header. A
// positive max caps the body size. On any error the partial body is
// discarded.
func ReadBody(ctx context.Context, s *Stream, header map[string]string, max int64) ([]byte, error) {
	out := &bodySink{max: max}
	var err error
	switch FramingOf(header) {
	case FramingChunked:
		err = readChunked(ctx, s, out)
	case FramingLength:
		v := strings.TrimSpace(header["CONTENT-LENGTH"])
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad Content-Length %q", ErrMalformedReply, v)
		}
		if max > 0 && n > max {
			return nil, fmt.Errorf("%w: Content-Length %d exceeds %d", ErrBodyTooLarge, n, max)
		}
		if n <= 1<<20 {
			out.Grow(int(n))
		}
		err = readFixed(ctx, s, n, out)
	default:
		err = readUntilClose(ctx, s, out)
	}
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type bodySink struct {
	bytes.Buffer
	max int64
}

func (b *bodySink) take(p []byte) error {
	if b.max > 0 && int64(b.Len()+len(p)) > b.max {
		return fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, b.max)
	}
	b.Write(p)
	return nil
}

func readFixed(ctx context.Context, s *Stream, n int64, out *bodySink) error {
	buf := s.Buffer()
	remain := n
	for remain > 0 {
		if buf.Len() == 0 {
			want := remain
			if free := int64(buf.Free()); want > free {
				want = free
			}
			if _, err := s.Receive(ctx, int(want)); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return fmt.Errorf("%w: body ended after %d of %d bytes", ErrTransport, n-remain+int64(buf.Len()), n)
				}
				return err
			}
		}
		take := int64(buf.Len())
		if take > remain {
			take = remain
		}
		if err := out.take(buf.Bytes()[:take]); err != nil {
			return err
		}
		buf.Consume(int(take))
		remain -= take
	}
	return nil
}

func readUntilClose(ctx context.Context, s *Stream, out *bodySink) error {
	buf := s.Buffer()
	for {
		if buf.Len() > 0 {
			if err := out.take(buf.Bytes()); err != nil {
				return err
			}
			buf.Consume(buf.Len())
		}
		if _, err := s.Receive(ctx, -1); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
