// SPDX-License-Identifier: Apache-2.0

package containers

// ElementHooks customizes per-element lifecycle inside a Vector. All hooks
// are optional; a nil hook falls back to the zero value (New), a shallow copy
// (Copy), or a no-op (Destroy). Hooks receive the vector's allocator so
// element-owned storage can come from the same arena as the vector itself.
type ElementHooks[T any] struct {
	// New produces the value used for elements created by Resize growth.
	New func(a Allocator) T

	// Copy produces an independent copy of an element; Clone applies it to
	// every element. Element types that own storage need a Copy hook for
	// Clone to be a true deep copy.
	Copy func(elem *T, a Allocator) T

	// Destroy releases element-owned resources. Invoked by Erase, EraseN,
	// Clear, Free, PopFront shifts and shrinking Resize.
	Destroy func(elem *T, a Allocator)
}

func (h *ElementHooks[T]) construct(a Allocator) T {
	if h != nil && h.New != nil {
		return h.New(a)
	}
	var zero T
	return zero
}

func (h *ElementHooks[T]) copyElem(elem *T, a Allocator) T {
	if h != nil && h.Copy != nil {
		return h.Copy(elem, a)
	}
	return *elem
}

func (h *ElementHooks[T]) destroy(elem *T, a Allocator) {
	if h != nil && h.Destroy != nil {
		h.Destroy(elem, a)
	}
}
