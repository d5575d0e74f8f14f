package runner

import (
	"bytes"
	"sync"
)

// BoundedBuffer keeps at most size bytes of written data, dropping the
// oldest content when the limit is exceeded. Used to capture the stderr
// tail of external tools without unbounded growth.
type BoundedBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
	size   int
}

// NewBoundedBuffer creates a buffer holding at most size bytes.
func NewBoundedBuffer(size int) *BoundedBuffer {
	return &BoundedBuffer{size: size}
}

// Write implements the io.Writer interface
func (b *BoundedBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buffer.Len()+len(p) > b.size {
		// New data would exceed the limit, drop the existing content
		b.buffer.Reset()
		if len(p) > b.size {
			// Keep only the last 'size' bytes of oversized writes
			p = p[len(p)-b.size:]
		}
	}
	return b.buffer.Write(p)
}

// String returns the contents of the buffer as a string
func (b *BoundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}
