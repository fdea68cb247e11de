// SPDX-License-Identifier: Apache-2.0

package containers

// Iterator is a random-access cursor over a Vector. It holds an index and a
// back-reference, never memory of its own, and is invalidated by any
// capacity-changing operation on the vector. Use:
//
//	it := v.Iterator()
//	for it.Next() {
//		_ = it.Value()
//	}
type Iterator[T any] struct {
	vec   *Vector[T]
	index int
}

// Next advances the cursor and reports whether an element is available.
func (it *Iterator[T]) Next() bool {
	if it.index+1 >= it.vec.Len() {
		return false
	}
	it.index++
	return true
}

// Prev moves the cursor back and reports whether an element is available.
func (it *Iterator[T]) Prev() bool {
	if it.index <= 0 {
		return false
	}
	it.index--
	return true
}

// Index returns the cursor position. Before the first Next it is -1.
func (it *Iterator[T]) Index() int {
	return it.index
}

// Value returns the element under the cursor.
func (it *Iterator[T]) Value() T {
	return it.vec.Get(it.index)
}

// Ref returns a mutable reference to the element under the cursor. The
// reference shares the iterator's validity rules.
func (it *Iterator[T]) Ref() *T {
	debugAssertIndex("Iterator.Ref", it.index, it.vec.Len())
	return &it.vec.buf()[it.index]
}

// Seek positions the cursor at index, or reports ErrOutOfBounds.
func (it *Iterator[T]) Seek(index int) error {
	if index < 0 || index >= it.vec.Len() {
		return outOfBounds("Iterator.Seek", index, it.vec.Len())
	}
	it.index = index
	return nil
}

// View is a non-owning window over a contiguous run of elements borrowed from
// a Vector. It never allocates and never outlives its source's storage: any
// capacity-changing operation on the source invalidates the view. The source
// does not track outstanding views; avoiding use-after-invalidate is the
// caller's responsibility.
type View[T any] struct {
	items []T
}

// Len returns the number of elements in the view.
func (w View[T]) Len() int {
	return len(w.items)
}

// IsEmpty reports whether the view covers no elements.
func (w View[T]) IsEmpty() bool {
	return len(w.items) == 0
}

// At returns the element at index within the view, or ErrOutOfBounds.
func (w View[T]) At(index int) (T, error) {
	if index < 0 || index >= len(w.items) {
		var zero T
		return zero, outOfBounds("View.At", index, len(w.items))
	}
	return w.items[index], nil
}

// Get returns the element at index without an error-path bounds check.
func (w View[T]) Get(index int) T {
	debugAssertIndex("View.Get", index, len(w.items))
	return w.items[index]
}

// Slice returns the view's backing window as a plain slice. Mutating it
// writes through to the source vector; appending to it is a caller bug.
func (w View[T]) Slice() []T {
	return w.items
}

// Sub returns a narrower view of [index, index+length) within this view.
func (w View[T]) Sub(index, length int) (View[T], error) {
	if length < 0 {
		return View[T]{}, invalidArgument("View.Sub", "negative length")
	}
	if index < 0 || index+length > len(w.items) {
		return View[T]{}, outOfBoundsRange("View.Sub", index, length, len(w.items))
	}
	return View[T]{items: w.items[index : index+length]}, nil
}
