// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Allocator is the memory capability consumed by Vector and String. It is
// held by the container as a value copy; memory obtained from one allocator
// must be released through the same allocator value.
//
// Implementations must return zeroed memory from Allocate, and must leave the
// original block valid and unchanged when Reallocate fails.
//
// Allocator memory is raw bytes outside the garbage collector's view, so
// containers place only pointer-free element payloads in it; element types
// containing pointers are kept in GC-managed storage regardless of the
// configured allocator.
type Allocator interface {
	// Allocate returns a pointer to size bytes of zeroed memory with the
	// given alignment, or nil on exhaustion.
	Allocate(size, alignment uintptr) unsafe.Pointer

	// Reallocate grows or shrinks a block previously obtained from this
	// allocator, preserving the first min(oldSize, newSize) bytes; any bytes
	// past oldSize in the new block are zeroed. On exhaustion it returns nil
	// and the original block stays valid.
	Reallocate(ptr unsafe.Pointer, oldSize, newSize, alignment uintptr) unsafe.Pointer

	// Deallocate releases a block previously obtained from this allocator.
	// Passing memory from a different allocator is a caller bug, not a
	// recoverable error.
	Deallocate(ptr unsafe.Pointer, size uintptr)
}

// HeapAllocator allocates from the Go heap. Deallocate drops the reference
// and leaves reclamation to the garbage collector, so "deallocated" memory is
// never reused behind a live pointer. Its Allocate never fails.
//
// HeapAllocator is stateless and safe for concurrent use.
type HeapAllocator struct{}

// DefaultAllocator returns the allocator containers use when none is
// supplied. There is no ambient mutable default; this is a plain value.
func DefaultAllocator() Allocator {
	return HeapAllocator{}
}

// Allocate satisfies the Allocator interface.
func (HeapAllocator) Allocate(size, _ uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	buf := make([]byte, size)
	return unsafe.Pointer(unsafe.SliceData(buf))
}

// Reallocate satisfies the Allocator interface. Go has no realloc, so this
// always allocates a fresh block and copies min(oldSize, newSize) bytes.
func (h HeapAllocator) Reallocate(ptr unsafe.Pointer, oldSize, newSize, alignment uintptr) unsafe.Pointer {
	next := h.Allocate(newSize, alignment)
	if next == nil || ptr == nil {
		return next
	}
	n := oldSize
	if newSize < n {
		n = newSize
	}
	copy(unsafe.Slice((*byte)(next), n), unsafe.Slice((*byte)(ptr), n))
	return next
}

// Deallocate satisfies the Allocator interface.
func (HeapAllocator) Deallocate(unsafe.Pointer, uintptr) {}

type recoverableAllocator struct {
	Allocator
}

func (recoverableAllocator) recoverableAllocations() {}

// Recoverable wraps an allocator so that exhaustion surfaces to the caller as
// ErrAllocationFailure instead of terminating the process. Apply it as the
// outermost wrapper when composing allocator decorators.
func Recoverable(a Allocator) Allocator {
	if a == nil {
		a = DefaultAllocator()
	}
	if _, ok := a.(recoverableAllocator); ok {
		return a
	}
	return recoverableAllocator{a}
}

func allocFailureIsRecoverable(a Allocator) bool {
	_, ok := a.(interface{ recoverableAllocations() })
	return ok
}

// allocFailed applies the allocation-failure policy: fatal with a diagnostic
// identifying the failing operation, unless the allocator is Recoverable.
func allocFailed(a Allocator, op string, bytes uintptr) error {
	if allocFailureIsRecoverable(a) {
		return errors.Wrapf(ErrAllocationFailure, "%s: %d bytes", op, bytes)
	}
	logger.Fatal("allocation failure",
		zap.String("op", op),
		zap.Uint64("bytes", uint64(bytes)),
	)
	return nil // unreachable, Fatal exits
}

// Allocate allocates a single zeroed value of type T from the allocator.
// A nil allocator, or a T containing pointers, falls back to Go's built-in
// new so the collector sees the value's referents.
func Allocate[T any](a Allocator) (*T, error) {
	if managedStorage[T](a) {
		return new(T), nil
	}
	var x T
	size := unsafe.Sizeof(x)
	if ptr := a.Allocate(size, unsafe.Alignof(x)); ptr != nil {
		return (*T)(ptr), nil
	}
	return nil, allocFailed(a, "Allocate", size)
}

// typeHasPointers reports whether values of t contain pointers the garbage
// collector must scan.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointers, strings, slices, maps, chans, funcs, interfaces.
		return true
	}
}

// managedStorage reports whether slices of T must stay in GC-managed memory.
// Allocator memory is raw bytes the collector never scans: a pointer stored
// in it does not keep its referent alive. Pointer-free element types are the
// only ones that may live there.
func managedStorage[T any](a Allocator) bool {
	return a == nil || typeHasPointers(reflect.TypeFor[T]())
}

// allocSlice returns a slice with len == cap == capacity backed by the
// allocator. The elements are zeroed. Returns nil, nil for capacity 0.
// Element types containing pointers are allocated with make instead, so the
// collector sees the elements' referents; the allocator only ever provides
// storage for pointer-free payloads.
func allocSlice[T any](a Allocator, capacity int, op string) ([]T, error) {
	if capacity <= 0 {
		return nil, nil
	}
	if managedStorage[T](a) {
		return make([]T, capacity), nil
	}
	var x T
	size := unsafe.Sizeof(x) * uintptr(capacity)
	ptr := a.Allocate(size, unsafe.Alignof(x))
	if ptr == nil {
		return nil, allocFailed(a, op, size)
	}
	return unsafe.Slice((*T)(ptr), capacity), nil
}

// reallocSlice resizes a slice's backing storage to newCapacity elements,
// preserving the existing elements up to min(len(s), newCapacity). The old
// storage is consumed; on a recoverable failure s stays valid.
func reallocSlice[T any](a Allocator, s []T, newCapacity int, op string) ([]T, error) {
	if len(s) == 0 {
		return allocSlice[T](a, newCapacity, op)
	}
	if managedStorage[T](a) {
		next := make([]T, newCapacity)
		copy(next, s)
		return next, nil
	}
	var x T
	elem := unsafe.Sizeof(x)
	oldBytes := elem * uintptr(len(s))
	newBytes := elem * uintptr(newCapacity)
	ptr := a.Reallocate(unsafe.Pointer(unsafe.SliceData(s)), oldBytes, newBytes, unsafe.Alignof(x))
	if ptr == nil {
		return nil, allocFailed(a, op, newBytes)
	}
	return unsafe.Slice((*T)(ptr), newCapacity), nil
}

// freeSlice returns a slice's backing storage to the allocator. Safe to call
// with a nil slice. Managed storage never came from the allocator and is left
// to the collector.
func freeSlice[T any](a Allocator, s []T) {
	if managedStorage[T](a) || len(s) == 0 {
		return
	}
	var x T
	a.Deallocate(unsafe.Pointer(unsafe.SliceData(s)), unsafe.Sizeof(x)*uintptr(len(s)))
}
