package hostfuncs

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"io"
)

// DefaultMaxOutputSize caps the data a host function reads on behalf of a
// script (10MB). Script strings are held in memory in full.
const DefaultMaxOutputSize = 10 * 1024 * 1024

// ErrOutputTooLarge is returned by ReadBounded when the source exceeds the limit.
var ErrOutputTooLarge = stdErrors.New("output exceeds limit")

// BoundedBuffer is an io.Writer that keeps at most limit bytes. Writes past
// the limit are discarded and mark the buffer truncated.
type BoundedBuffer struct {
	buffer    bytes.Buffer
	limit     int
	truncated bool
}

// NewBoundedBuffer creates a new BoundedBuffer with the specified limit.
func NewBoundedBuffer(limit int) *BoundedBuffer {
	return &BoundedBuffer{limit: limit}
}

// Write implements io.Writer. It always reports len(p) so io.Copy does not
// fail with a short write.
func (b *BoundedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buffer.Len()
	if remaining <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > remaining {
		b.truncated = true
		if _, err := b.buffer.Write(p[:remaining]); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	return b.buffer.Write(p)
}

// Truncated reports whether any written data was discarded.
func (b *BoundedBuffer) Truncated() bool {
	return b.truncated
}

// String returns the buffer contents as a string.
func (b *BoundedBuffer) String() string {
	return b.buffer.String()
}

// Len returns the current length of the buffer.
func (b *BoundedBuffer) Len() int {
	return b.buffer.Len()
}

// ReadBounded reads r to the end and returns its contents, failing with
// ErrOutputTooLarge if more than limit bytes were available.
func ReadBounded(r io.Reader, limit int) (string, error) {
	buf := NewBoundedBuffer(limit)
	if _, err := io.Copy(buf, r); err != nil {
		return "", err
	}
	if buf.Truncated() {
		return "", fmt.Errorf("%w: more than %d bytes", ErrOutputTooLarge, limit)
	}
	return buf.String(), nil
}
