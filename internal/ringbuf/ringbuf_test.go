package ringbuf_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyoka/wiimoted/internal/ringbuf"
)

func TestOfferDrainRoundTrip(t *testing.T) {
	for _, n := range []int{1, 7, 100, 1023} {
		b := ringbuf.New(1024)
		in := make([]byte, n)
		for i := range in {
			in[i] = byte(i)
		}
		require.Equal(t, n, b.Offer(in))
		assert.Equal(t, n, b.Len())
		out := b.Drain(n)
		assert.Equal(t, in, out)
		assert.Equal(t, 0, b.Len())
	}
}

func TestOfferOverflowDropsExcess(t *testing.T) {
	b := ringbuf.New(16)
	in := make([]byte, 32)
	for i := range in {
		in[i] = byte(i)
	}
	accepted := b.Offer(in)
	assert.Equal(t, b.Cap(), accepted)
	assert.Equal(t, 15, accepted)

	// The accepted prefix survives intact; the rest is gone.
	out := b.Drain(32)
	assert.Equal(t, in[:accepted], out)

	// Space freed by the drain is reusable.
	assert.Equal(t, 15, b.Offer(in))
}

func TestDrainEmpty(t *testing.T) {
	b := ringbuf.New(16)
	assert.Empty(t, b.Drain(8))
	assert.Empty(t, b.Drain(0))
	assert.Empty(t, b.Drain(-1))
}

func TestDrainPartial(t *testing.T) {
	b := ringbuf.New(16)
	b.Offer([]byte("abcdef"))
	assert.Equal(t, []byte("abc"), b.Drain(3))
	assert.Equal(t, []byte("def"), b.Drain(10))
}

func TestWrapAround(t *testing.T) {
	b := ringbuf.New(8)
	// Cycle data through the buffer several times so the indices wrap.
	for round := 0; round < 10; round++ {
		in := []byte{byte(round), byte(round + 1), byte(round + 2)}
		require.Equal(t, len(in), b.Offer(in))
		assert.Equal(t, in, b.Drain(len(in)))
	}
}

func TestNewPanicsOnTinyCapacity(t *testing.T) {
	assert.Panics(t, func() { ringbuf.New(1) })
}

func TestConcurrentProducerConsumer(t *testing.T) {
	b := ringbuf.New(64)

	const total = 10000
	expected := make([]byte, total)
	for i := range expected {
		expected[i] = byte(i)
	}

	// The producer retries unaccepted bytes, so every byte is eventually
	// accepted exactly once and the consumer must observe the full
	// sequence in order, regardless of interleaving.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if b.Offer(expected[i:i+1]) == 1 {
				i++
			}
		}
	}()

	var drained []byte
	for len(drained) < total {
		drained = append(drained, b.Drain(16)...)
	}
	wg.Wait()

	assert.Equal(t, expected, drained)
	assert.Equal(t, 0, b.Len())
}
