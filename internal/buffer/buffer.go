// Package buffer provides the append-only growable buffer used to collect
// tokens during lexing and bytes during JSON assembly.
//
// Growth is explicit: when an append does not fit, capacity doubles (or
// jumps straight to the required size when doubling is not enough). Once
// the producer is done, Shrink hands back a slice of exactly Len elements.
package buffer

// minCapacity is the smallest capacity a buffer is created or grown with.
const minCapacity = 8

// Buffer is an append-only sequence of T with amortized doubling growth.
// The zero value is ready to use.
type Buffer[T any] struct {
	items []T
}

// New creates a buffer with room for capacity elements.
func New[T any](capacity int) *Buffer[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Buffer[T]{items: make([]T, 0, capacity)}
}

// Len returns the number of elements appended so far.
func (b *Buffer[T]) Len() int {
	return len(b.items)
}

// Cap returns the current capacity.
func (b *Buffer[T]) Cap() int {
	return cap(b.items)
}

// Items returns the appended elements. The slice aliases the buffer and is
// only valid until the next append.
func (b *Buffer[T]) Items() []T {
	return b.items
}

// At returns the element at index i.
func (b *Buffer[T]) At(i int) T {
	return b.items[i]
}

// Push appends a single element.
func (b *Buffer[T]) Push(item T) {
	b.reserve(1)
	b.items = append(b.items, item)
}

// PushMany appends all of items.
func (b *Buffer[T]) PushMany(items ...T) {
	if len(items) == 0 {
		return
	}
	b.reserve(len(items))
	b.items = append(b.items, items...)
}

// Reset truncates the buffer to zero length, keeping its capacity.
func (b *Buffer[T]) Reset() {
	clear(b.items)
	b.items = b.items[:0]
}

// Grow makes sure at least n more elements fit without reallocating.
func (b *Buffer[T]) Grow(n int) {
	if n > 0 {
		b.reserve(n)
	}
}

// Shrink reallocates the buffer to exactly Len elements and returns them.
// The returned slice is owned by the caller; the buffer keeps referring to
// it, so further appends reallocate.
func (b *Buffer[T]) Shrink() []T {
	if cap(b.items) == len(b.items) {
		return b.items
	}
	exact := make([]T, len(b.items))
	copy(exact, b.items)
	b.items = exact
	return exact
}

// reserve doubles the capacity until n more elements fit.
func (b *Buffer[T]) reserve(n int) {
	need := len(b.items) + n
	if need <= cap(b.items) {
		return
	}

	newCap := cap(b.items)
	if newCap < minCapacity {
		newCap = minCapacity
	}
	for newCap < need {
		newCap *= 2
	}

	grown := make([]T, len(b.items), newCap)
	copy(grown, b.items)
	b.items = grown
}
