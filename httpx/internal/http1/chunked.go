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

var errChunkFormat = fmt.Errorf("%w: invalid chunk format", ErrMalformedReply)

// readChunked decodes a Transfer-Encoding: chunked body. Trailers after
// the last chunk are not read; the connection is closed afterwards anyway.
func readChunked(ctx context.Context, s *Stream, out *bodySink) error {
	buf := s.Buffer()
	for {
		size, err := readChunkSize(ctx, s)
		if err != nil {
			return err
		}
		if size == 0 {
			return nil
		}
		for remain := size; remain > 0; {
			if buf.Len() == 0 {
				if err := refill(ctx, s); err != nil {
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
		if err := expectCRLF(ctx, s); err != nil {
			return err
		}
	}
}

func readChunkSize(ctx context.Context, s *Stream) (int64, error) {
	buf := s.Buffer()
	for {
		if i := bytes.IndexByte(buf.Bytes(), '\n'); i >= 0 {
			line := string(buf.Bytes()[:i])
			buf.Consume(i + 1)
			// Strip chunk extensions if any: "<hex>;<ext>"
			if j := strings.IndexByte(line, ';'); j >= 0 {
				line = line[:j]
			}
			line = strings.TrimSpace(line)
			if line == "" {
				return 0, errChunkFormat
			}
			n, err := strconv.ParseInt(line, 16, 64)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%w: size %q", errChunkFormat, line)
			}
			return n, nil
		}
		if err := refill(ctx, s); err != nil {
			return 0, err
		}
	}
}

func expectCRLF(ctx context.Context, s *Stream) error {
	buf := s.Buffer()
	for buf.Len() < 2 {
		if err := refill(ctx, s); err != nil {
			return err
		}
	}
	b := buf.Bytes()
	if b[0] != '\r' || b[1] != '\n' {
		return fmt.Errorf("%w: expected CRLF after chunk, got %q", errChunkFormat, b[:2])
	}
	buf.Consume(2)
	return nil
}

// refill receives more bytes for the chunk decoder. Running out of input
// or buffer space in the middle of the framing is a malformed reply.
func refill(ctx context.Context, s *Stream) error {
	_, err := s.Receive(ctx, -1)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: connection closed inside chunked body", ErrMalformedReply)
	case errors.Is(err, ErrBufferFull):
		return fmt.Errorf("%w: chunk line longer than buffer", ErrMalformedReply)
	default:
		return err
	}
}
