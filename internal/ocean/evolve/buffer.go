package evolve

import (
	"sync"
	"sync/atomic"
)

// Buffer double-buffers the time-varying field. The evolution step writes into
// Back and Publish makes it visible through Front; readers never observe a
// field mid-update as long as they do not hold Front across a Publish.
type Buffer struct {
	front atomic.Pointer[Field]
	back  atomic.Pointer[Field]
	mu    sync.Mutex
	steps uint64
}

// NewBuffer allocates both halves for an N x N grid.
func NewBuffer(n int) *Buffer {
	b := &Buffer{}
	b.front.Store(NewField(n))
	b.back.Store(NewField(n))
	return b
}

// Front returns the last published field.
func (b *Buffer) Front() *Field {
	return b.front.Load()
}

// Back returns the field the next step should write.
func (b *Buffer) Back() *Field {
	return b.back.Load()
}

// Publish swaps the halves after a completed step.
func (b *Buffer) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	front := b.front.Load()
	back := b.back.Load()
	b.front.Store(back)
	b.back.Store(front)
	b.steps++
}

// Steps returns how many fields have been published.
func (b *Buffer) Steps() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.steps
}
