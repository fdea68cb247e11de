// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"sync/atomic"
	"unsafe"
)

// AllocatorStats is a point-in-time snapshot of a CountingAllocator.
type AllocatorStats struct {
	Allocations    int64
	Reallocations  int64
	Deallocations  int64
	BytesAllocated int64
	BytesFreed     int64
}

// CountingAllocator wraps an allocator and counts every call that passes
// through it. It is the observability hook for verifying allocation behavior,
// e.g. that a container with inline storage performs no heap allocation until
// it outgrows the inline capacity.
//
// The counters are atomic; the thread-safety of the allocations themselves is
// still the wrapped allocator's contract.
type CountingAllocator struct {
	inner Allocator

	allocations    atomic.Int64
	reallocations  atomic.Int64
	deallocations  atomic.Int64
	bytesAllocated atomic.Int64
	bytesFreed     atomic.Int64
}

// NewCountingAllocator wraps a, defaulting to the heap allocator when a is nil.
func NewCountingAllocator(a Allocator) *CountingAllocator {
	if a == nil {
		a = DefaultAllocator()
	}
	return &CountingAllocator{inner: a}
}

// Allocate satisfies the Allocator interface.
func (c *CountingAllocator) Allocate(size, alignment uintptr) unsafe.Pointer {
	ptr := c.inner.Allocate(size, alignment)
	if ptr != nil {
		c.allocations.Add(1)
		c.bytesAllocated.Add(int64(size))
	}
	return ptr
}

// Reallocate satisfies the Allocator interface.
func (c *CountingAllocator) Reallocate(ptr unsafe.Pointer, oldSize, newSize, alignment uintptr) unsafe.Pointer {
	next := c.inner.Reallocate(ptr, oldSize, newSize, alignment)
	if next != nil {
		c.reallocations.Add(1)
		c.bytesAllocated.Add(int64(newSize))
		c.bytesFreed.Add(int64(oldSize))
	}
	return next
}

// Deallocate satisfies the Allocator interface.
func (c *CountingAllocator) Deallocate(ptr unsafe.Pointer, size uintptr) {
	c.inner.Deallocate(ptr, size)
	c.deallocations.Add(1)
	c.bytesFreed.Add(int64(size))
}

// Stats returns a snapshot of the counters.
func (c *CountingAllocator) Stats() AllocatorStats {
	return AllocatorStats{
		Allocations:    c.allocations.Load(),
		Reallocations:  c.reallocations.Load(),
		Deallocations:  c.deallocations.Load(),
		BytesAllocated: c.bytesAllocated.Load(),
		BytesFreed:     c.bytesFreed.Load(),
	}
}

// HeapOperations returns the number of calls that touched backing storage,
// i.e. allocations plus reallocations.
func (c *CountingAllocator) HeapOperations() int64 {
	return c.allocations.Load() + c.reallocations.Load()
}
