// SPDX-License-Identifier: Apache-2.0

package containers

// InlineCapacity is the number of elements a Vector stores inside its own
// value before moving to heap storage.
const InlineCapacity = 8

type storageMode uint8

const (
	storageInline storageMode = iota
	storageHeap
)

// Vector is a contiguous growable buffer of T with small-size optimization:
// the first InlineCapacity elements live inside the Vector value itself and
// cost no allocation. The first time the length would exceed the inline
// capacity the storage moves to the allocator-backed heap and stays there;
// only an explicit ShrinkToFit can move it back.
//
// A Vector is exclusively owned: copy it with Clone, not by assignment, and
// synchronize externally if shared across goroutines. Any operation that can
// change capacity (PushBack, PushFront, Insert, Resize, Reserve, ShrinkToFit)
// invalidates all iterators and views previously obtained from the vector.
type Vector[T any] struct {
	inline   [InlineCapacity]T
	heap     []T // len == capacity, heap mode only
	length   int
	mode     storageMode
	noInline bool

	alloc Allocator
	hooks ElementHooks[T]
	grow  GrowthFunc
}

// Option configures a Vector at construction.
type Option[T any] func(*Vector[T])

// WithAllocator sets the allocator used for heap storage. The default is the
// Go heap.
func WithAllocator[T any](a Allocator) Option[T] {
	return func(v *Vector[T]) {
		if a != nil {
			v.alloc = a
		}
	}
}

// WithHooks sets the element lifecycle hooks.
func WithHooks[T any](hooks ElementHooks[T]) Option[T] {
	return func(v *Vector[T]) {
		v.hooks = hooks
	}
}

// WithGrowth sets the growth policy. The default is DefaultGrowth.
func WithGrowth[T any](g GrowthFunc) Option[T] {
	return func(v *Vector[T]) {
		if g != nil {
			v.grow = g
		}
	}
}

// WithoutInlineStorage disables the small-size optimization; the vector
// starts with capacity zero and its first mutation allocates at least
// DefaultHeapCapacity elements. Useful when Vector values are themselves
// stored in slices and a large inline array would bloat them.
func WithoutInlineStorage[T any]() Option[T] {
	return func(v *Vector[T]) {
		v.noInline = true
		v.mode = storageHeap
	}
}

// New creates an empty vector. It performs no allocation: inline storage is
// part of the returned value.
func New[T any](opts ...Option[T]) *Vector[T] {
	v := &Vector[T]{
		alloc: DefaultAllocator(),
		grow:  DefaultGrowth,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewWithCapacity creates an empty vector with storage for at least capacity
// elements already reserved.
func NewWithCapacity[T any](capacity int, opts ...Option[T]) (*Vector[T], error) {
	v := New(opts...)
	if err := v.Reserve(capacity); err != nil {
		return nil, err
	}
	return v, nil
}

// buf returns the live storage. Its length is the vector's capacity.
func (v *Vector[T]) buf() []T {
	if v.mode == storageInline {
		return v.inline[:]
	}
	return v.heap
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int {
	return v.length
}

// Cap returns the number of elements storage can hold without reallocation.
func (v *Vector[T]) Cap() int {
	if v.mode == storageInline {
		return InlineCapacity
	}
	return len(v.heap)
}

// IsEmpty reports whether the vector holds no elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.length == 0
}

// IsFull reports whether the next append would have to grow storage.
func (v *Vector[T]) IsFull() bool {
	return v.length == v.Cap()
}

// IsInline reports whether the elements are stored inside the Vector value.
func (v *Vector[T]) IsInline() bool {
	return v.mode == storageInline
}

// At returns the element at index, or ErrOutOfBounds.
func (v *Vector[T]) At(index int) (T, error) {
	if index < 0 || index >= v.length {
		var zero T
		return zero, outOfBounds("Vector.At", index, v.length)
	}
	return v.buf()[index], nil
}

// Ref returns a mutable reference to the element at index, or ErrOutOfBounds.
// The reference is invalidated by any capacity-changing operation.
func (v *Vector[T]) Ref(index int) (*T, error) {
	if index < 0 || index >= v.length {
		return nil, outOfBounds("Vector.Ref", index, v.length)
	}
	return &v.buf()[index], nil
}

// Get returns the element at index without an error-path bounds check. An
// invalid index panics; builds with the containersdebug tag panic with a
// diagnostic naming the operation.
func (v *Vector[T]) Get(index int) T {
	debugAssertIndex("Vector.Get", index, v.length)
	return v.buf()[:v.length][index]
}

// Set overwrites the element at index without an error-path bounds check.
func (v *Vector[T]) Set(index int, value T) {
	debugAssertIndex("Vector.Set", index, v.length)
	v.buf()[:v.length][index] = value
}

// Front returns the first element, if any.
func (v *Vector[T]) Front() (T, bool) {
	if v.length == 0 {
		var zero T
		return zero, false
	}
	return v.buf()[0], true
}

// Back returns the last element, if any.
func (v *Vector[T]) Back() (T, bool) {
	if v.length == 0 {
		var zero T
		return zero, false
	}
	return v.buf()[v.length-1], true
}

// ensureCapacity grows storage so that at least required elements fit,
// consulting the growth policy. Growing moves the elements and invalidates
// all outstanding iterators and views.
func (v *Vector[T]) ensureCapacity(required int, op string) error {
	if required <= v.Cap() {
		return nil
	}
	return v.setCapacity(nextCapacity(v.grow, v.Cap(), required), op)
}

// setCapacity moves storage to a heap buffer of exactly newCap elements.
// Callers guarantee newCap >= length.
func (v *Vector[T]) setCapacity(newCap int, op string) error {
	if v.mode == storageInline {
		next, err := allocSlice[T](v.alloc, newCap, op)
		if err != nil {
			return err
		}
		copy(next, v.inline[:v.length])
		v.inline = [InlineCapacity]T{}
		v.heap = next
		v.mode = storageHeap
		return nil
	}
	next, err := reallocSlice(v.alloc, v.heap, newCap, op)
	if err != nil {
		return err
	}
	v.heap = next
	return nil
}

// PushBack appends value, growing storage per the growth policy when full.
// Amortized O(1).
func (v *Vector[T]) PushBack(value T) error {
	if err := v.ensureCapacity(v.length+1, "Vector.PushBack"); err != nil {
		return err
	}
	v.buf()[v.length] = value
	v.length++
	return nil
}

// PopBack removes and returns the last element. It never reallocates.
func (v *Vector[T]) PopBack() (T, bool) {
	if v.length == 0 {
		var zero T
		return zero, false
	}
	buf := v.buf()
	elem := buf[v.length-1]
	var zero T
	buf[v.length-1] = zero
	v.length--
	return elem, true
}

// PushFront prepends value, shifting all elements right. O(n).
func (v *Vector[T]) PushFront(value T) error {
	if err := v.ensureCapacity(v.length+1, "Vector.PushFront"); err != nil {
		return err
	}
	buf := v.buf()
	copy(buf[1:v.length+1], buf[:v.length])
	buf[0] = value
	v.length++
	return nil
}

// PopFront removes and returns the first element, shifting the rest left.
// O(n); never reallocates.
func (v *Vector[T]) PopFront() (T, bool) {
	if v.length == 0 {
		var zero T
		return zero, false
	}
	buf := v.buf()
	elem := buf[0]
	copy(buf[:v.length-1], buf[1:v.length])
	var zero T
	buf[v.length-1] = zero
	v.length--
	return elem, true
}

// Insert places value at index, shifting subsequent elements right. index may
// equal Len, which appends. O(n).
func (v *Vector[T]) Insert(value T, index int) error {
	if index < 0 || index > v.length {
		return outOfBounds("Vector.Insert", index, v.length)
	}
	if err := v.ensureCapacity(v.length+1, "Vector.Insert"); err != nil {
		return err
	}
	buf := v.buf()
	if index != v.length {
		copy(buf[index+1:v.length+1], buf[index:v.length])
	}
	buf[index] = value
	v.length++
	return nil
}

// Erase destroys the element at index and shifts subsequent elements left.
// O(n).
func (v *Vector[T]) Erase(index int) error {
	if index < 0 || index >= v.length {
		return outOfBounds("Vector.Erase", index, v.length)
	}
	buf := v.buf()
	v.hooks.destroy(&buf[index], v.alloc)
	copy(buf[index:v.length-1], buf[index+1:v.length])
	var zero T
	buf[v.length-1] = zero
	v.length--
	return nil
}

// EraseN destroys count elements starting at index and shifts the remainder
// left. A range reaching past the end is clamped to the last element: the
// call removes through Len and succeeds. This tolerance is deliberate and is
// the only place (together with String.Substring padding) where an
// out-of-range argument is not an error.
func (v *Vector[T]) EraseN(index, count int) error {
	if count < 0 {
		return invalidArgument("Vector.EraseN", "negative count")
	}
	if index < 0 || index > v.length {
		return outOfBoundsRange("Vector.EraseN", index, count, v.length)
	}
	if index+count > v.length {
		count = v.length - index
	}
	if count == 0 {
		return nil
	}
	buf := v.buf()
	for i := index; i < index+count; i++ {
		v.hooks.destroy(&buf[i], v.alloc)
	}
	copy(buf[index:], buf[index+count:v.length])
	var zero T
	for i := v.length - count; i < v.length; i++ {
		buf[i] = zero
	}
	v.length -= count
	return nil
}

// Resize sets the length to newLength. Growth default-constructs the new
// elements through the New hook (zero value without one); shrinking destroys
// the removed elements. Capacity never shrinks.
func (v *Vector[T]) Resize(newLength int) error {
	if newLength < 0 {
		return invalidArgument("Vector.Resize", "negative length")
	}
	if newLength > v.length {
		if err := v.ensureCapacity(newLength, "Vector.Resize"); err != nil {
			return err
		}
		buf := v.buf()
		for i := v.length; i < newLength; i++ {
			buf[i] = v.hooks.construct(v.alloc)
		}
	} else {
		buf := v.buf()
		var zero T
		for i := newLength; i < v.length; i++ {
			v.hooks.destroy(&buf[i], v.alloc)
			buf[i] = zero
		}
	}
	v.length = newLength
	return nil
}

// Reserve grows capacity to hold at least newCapacity elements. An explicit
// reservation is honored exactly (no growth-policy rounding); requesting
// less than the current capacity is a no-op. Reserve never shrinks.
func (v *Vector[T]) Reserve(newCapacity int) error {
	if newCapacity <= v.Cap() {
		return nil
	}
	return v.setCapacity(newCapacity, "Vector.Reserve")
}

// ShrinkToFit releases unused capacity. When the length fits the inline
// capacity the elements move back into the Vector value and the heap buffer
// is returned to the allocator. Idempotent.
func (v *Vector[T]) ShrinkToFit() error {
	if v.mode == storageInline {
		return nil
	}
	if v.length <= InlineCapacity && !v.noInline {
		copy(v.inline[:], v.heap[:v.length])
		freeSlice(v.alloc, v.heap)
		v.heap = nil
		v.mode = storageInline
		return nil
	}
	if v.length == len(v.heap) {
		return nil
	}
	if v.length == 0 {
		freeSlice(v.alloc, v.heap)
		v.heap = nil
		return nil
	}
	next, err := reallocSlice(v.alloc, v.heap, v.length, "Vector.ShrinkToFit")
	if err != nil {
		return err
	}
	v.heap = next
	return nil
}

// Clear destroys all elements and sets the length to zero. Capacity is
// unchanged.
func (v *Vector[T]) Clear() {
	buf := v.buf()
	var zero T
	for i := 0; i < v.length; i++ {
		v.hooks.destroy(&buf[i], v.alloc)
		buf[i] = zero
	}
	v.length = 0
}

// Clone returns a deep copy sharing the allocator, hooks and growth policy
// but not the storage: mutating the clone never affects the original. Each
// element is copied through the Copy hook when one is set.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	out := &Vector[T]{
		alloc:    v.alloc,
		hooks:    v.hooks,
		grow:     v.grow,
		noInline: v.noInline,
	}
	if out.noInline {
		out.mode = storageHeap
	}
	if err := out.Reserve(v.Cap()); err != nil {
		return nil, err
	}
	src := v.buf()
	dst := out.buf()
	for i := 0; i < v.length; i++ {
		dst[i] = v.hooks.copyElem(&src[i], v.alloc)
	}
	out.length = v.length
	return out, nil
}

// Free destroys all elements and returns heap storage to the allocator. The
// vector is reset to its empty inline state and may be reused.
func (v *Vector[T]) Free() {
	v.Clear()
	if v.mode == storageHeap {
		freeSlice(v.alloc, v.heap)
		v.heap = nil
		if !v.noInline {
			v.mode = storageInline
		}
	}
}

// View returns a non-owning view of all live elements. Valid only until the
// next capacity-changing operation.
func (v *Vector[T]) View() View[T] {
	return View[T]{items: v.buf()[:v.length]}
}

// ViewRange returns a non-owning view of [index, index+length). A range
// reaching past the end is an error; use View for the whole vector.
func (v *Vector[T]) ViewRange(index, length int) (View[T], error) {
	if length < 0 {
		return View[T]{}, invalidArgument("Vector.ViewRange", "negative length")
	}
	if index < 0 || index+length > v.length {
		return View[T]{}, outOfBoundsRange("Vector.ViewRange", index, length, v.length)
	}
	return View[T]{items: v.buf()[index : index+length]}, nil
}

// Iterator returns a cursor positioned before the first element.
func (v *Vector[T]) Iterator() Iterator[T] {
	return Iterator[T]{vec: v, index: -1}
}
