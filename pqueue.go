// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskex

// PQueue is a bounded priority queue over an array-backed binary heap.
// It is the timed store of the executor.
//
// The comparator returns a negative value when a has higher priority
// than b (for the executor: the smaller wake-up instant), zero when
// equal, positive otherwise. Elements with equal keys pop in arbitrary
// order, but every equal-key pop succeeds until the heap is empty.
//
// All storage is allocated at construction. Push on a full heap returns
// ErrWouldBlock. Not safe for concurrent use.
type PQueue[T any] struct {
	buffer []T
	cmp    func(a, b *T) int
	size   int
}

// NewPQueue creates a priority queue with the given capacity and
// comparator. Panics if capacity < 1 or cmp is nil.
func NewPQueue[T any](capacity int, cmp func(a, b *T) int) *PQueue[T] {
	if capacity < 1 {
		panic("taskex: capacity must be >= 1")
	}
	if cmp == nil {
		panic("taskex: comparator must not be nil")
	}
	return &PQueue[T]{
		buffer: make([]T, capacity),
		cmp:    cmp,
	}
}

// Len returns the number of queued elements.
func (h *PQueue[T]) Len() int {
	return h.size
}

// Empty reports whether the heap holds no elements.
func (h *PQueue[T]) Empty() bool {
	return h.size == 0
}

// Cap returns the heap capacity.
func (h *PQueue[T]) Cap() int {
	return len(h.buffer)
}

// Push inserts an element and sifts it up.
// Returns ErrWouldBlock if the heap is full.
func (h *PQueue[T]) Push(elem *T) error {
	if h.size == len(h.buffer) {
		return ErrWouldBlock
	}
	h.buffer[h.size] = *elem
	h.siftUp(h.size)
	h.size++
	return nil
}

// Pop removes and returns the highest-priority element. The vacated
// slot is zeroed. Returns (zero-value, ErrWouldBlock) if the heap is
// empty.
func (h *PQueue[T]) Pop() (T, error) {
	var zero T
	if h.size == 0 {
		return zero, ErrWouldBlock
	}
	elem := h.buffer[0]
	h.size--
	h.buffer[0] = h.buffer[h.size]
	h.buffer[h.size] = zero
	if h.size > 0 {
		h.siftDown(0)
	}
	return elem, nil
}

// Peek returns a pointer to the highest-priority element, valid until
// the next mutating operation. Returns (nil, ErrWouldBlock) if the heap
// is empty.
func (h *PQueue[T]) Peek() (*T, error) {
	if h.size == 0 {
		return nil, ErrWouldBlock
	}
	return &h.buffer[0], nil
}

// Clear drains the heap, invoking drop on every residual element.
// drop may be nil. Slots are zeroed.
func (h *PQueue[T]) Clear(drop func(*T)) {
	var zero T
	for i := 0; i < h.size; i++ {
		if drop != nil {
			drop(&h.buffer[i])
		}
		h.buffer[i] = zero
	}
	h.size = 0
}

func (h *PQueue[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.cmp(&h.buffer[i], &h.buffer[parent]) >= 0 {
			break
		}
		h.buffer[i], h.buffer[parent] = h.buffer[parent], h.buffer[i]
		i = parent
	}
}

func (h *PQueue[T]) siftDown(i int) {
	for {
		left := 2*i + 1
		right := 2*i + 2
		best := i
		if left < h.size && h.cmp(&h.buffer[left], &h.buffer[best]) < 0 {
			best = left
		}
		if right < h.size && h.cmp(&h.buffer[right], &h.buffer[best]) < 0 {
			best = right
		}
		if best == i {
			return
		}
		h.buffer[i], h.buffer[best] = h.buffer[best], h.buffer[i]
		i = best
	}
}
