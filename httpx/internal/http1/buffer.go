package http1

// DefaultBufferLimit is the receive buffer capacity used when none is
// configured.
const DefaultBufferLimit = 32767

// Buffer is the receive buffer shared by the head parser and the body
// readers. Unread bytes live in data[r:w]. Storage grows on demand but the
// number of unread bytes never exceeds limit.
type Buffer struct {
	data  []byte
	r, w  int
	limit int
}

// NewBuffer returns an empty buffer holding at most limit unread bytes.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultBufferLimit
	}
	return &Buffer{limit: limit}
}

// Bytes returns the unread bytes. The slice is only valid until the next
// Consume or receive.
func (b *Buffer) Bytes() []byte { return b.data[b.r:b.w] }

// Len is the number of unread bytes.
func (b *Buffer) Len() int { return b.w - b.r }

// Limit is the configured capacity.
func (b *Buffer) Limit() int { return b.limit }

// Free is how many more bytes can be received before the buffer is full.
func (b *Buffer) Free() int { return b.limit - b.Len() }

// Consume marks n unread bytes as read.
func (b *Buffer) Consume(n int) {
	if n > b.Len() {
		n = b.Len()
	}
	b.r += n
	if b.r == b.w {
		b.r, b.w = 0, 0
	}
}

// Reset drops all unread bytes.
func (b *Buffer) Reset() { b.r, b.w = 0, 0 }

// writable returns n bytes of free space at the write cursor, compacting
// and growing storage as needed. n must not exceed Free.
func (b *Buffer) writable(n int) []byte {
	if b.w+n > len(b.data) && b.r > 0 {
		copy(b.data, b.data[b.r:b.w])
		b.w -= b.r
		b.r = 0
	}
	if need := b.w + n; need > len(b.data) {
		size := 2 * len(b.data)
		if size < 512 {
			size = 512
		}
		if size < need {
			size = need
		}
		if size > b.limit {
			size = b.limit
		}
		grown := make([]byte, size)
		copy(grown, b.data[:b.w])
		b.data = grown
	}
	return b.data[b.w : b.w+n]
}

func (b *Buffer) commit(n int) { b.w += n }
