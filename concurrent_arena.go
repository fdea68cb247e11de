// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"sync"
	"unsafe"
)

type concurrentArena struct {
	mtx sync.Mutex
	a   ArenaAllocator
}

// NewConcurrentArena returns an arena allocator that is safe to be shared
// across goroutines. Note that this only protects the allocator; containers
// built on it still require external synchronization.
func NewConcurrentArena(a ArenaAllocator) ArenaAllocator {
	return &concurrentArena{a: a}
}

// Allocate satisfies the Allocator interface.
func (a *concurrentArena) Allocate(size, alignment uintptr) unsafe.Pointer {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return nil
	}
	return a.a.Allocate(size, alignment)
}

// Reallocate satisfies the Allocator interface.
func (a *concurrentArena) Reallocate(ptr unsafe.Pointer, oldSize, newSize, alignment uintptr) unsafe.Pointer {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return nil
	}
	return a.a.Reallocate(ptr, oldSize, newSize, alignment)
}

// Deallocate satisfies the Allocator interface.
func (a *concurrentArena) Deallocate(ptr unsafe.Pointer, size uintptr) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return
	}
	a.a.Deallocate(ptr, size)
}

// Reset satisfies the ArenaAllocator interface.
func (a *concurrentArena) Reset() {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return
	}
	a.a.Reset()
}

// Release satisfies the ArenaAllocator interface.
func (a *concurrentArena) Release() {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return
	}
	a.a.Release()
}

// Len returns the total number of bytes currently allocated in the arena.
func (a *concurrentArena) Len() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return 0
	}
	return a.a.Len()
}

// Cap returns the total capacity (maximum bytes) that can be allocated in the arena.
func (a *concurrentArena) Cap() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return 0
	}
	return a.a.Cap()
}

// Peak returns the peak number of bytes that have been allocated in the arena.
func (a *concurrentArena) Peak() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return 0
	}
	return a.a.Peak()
}
