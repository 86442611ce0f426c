// Package ringbuf implements a fixed-capacity circular byte queue shared
// between one producer and any number of consumers. A full buffer drops
// newly offered bytes instead of blocking the producer.
package ringbuf

import "sync"

// DefaultCapacity is the buffer size used by the daemon.
const DefaultCapacity = 1024

// Buffer is a mutex-guarded circular byte queue. One slot is permanently
// reserved so a full buffer is distinguishable from an empty one: a buffer
// constructed with capacity n holds at most n-1 bytes.
type Buffer struct {
	mu  sync.Mutex
	buf []byte
	r   int // next byte to drain
	w   int // next byte to fill
}

// New creates a buffer with the given capacity. Capacity is fixed for the
// lifetime of the buffer.
func New(capacity int) *Buffer {
	if capacity < 2 {
		panic("ringbuf: capacity must be at least 2")
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Offer appends as many bytes of p as fit and returns the accepted count.
// Bytes past the accepted count are dropped; Offer never blocks. Partial
// acceptance is a defined outcome, not an error.
func (b *Buffer) Offer(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range p {
		next := b.w + 1
		if next == len(b.buf) {
			next = 0
		}
		if next == b.r {
			break
		}
		b.buf[b.w] = c
		b.w = next
		n++
	}
	return n
}

// Drain removes and returns up to max bytes in the order they were
// accepted. An empty buffer yields an empty result; Drain never blocks.
func (b *Buffer) Drain(max int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if max <= 0 {
		return nil
	}
	var out []byte
	for len(out) < max && b.r != b.w {
		out = append(out, b.buf[b.r])
		b.r++
		if b.r == len(b.buf) {
			b.r = 0
		}
	}
	return out
}

// Len reports the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.w - b.r
	if n < 0 {
		n += len(b.buf)
	}
	return n
}

// Cap reports the usable capacity (one slot below the constructed size).
func (b *Buffer) Cap() int {
	return len(b.buf) - 1
}
