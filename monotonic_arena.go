// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"unsafe"
)

// ArenaAllocator is an Allocator with bulk reclamation. Arena memory is
// released all at once, so individual Deallocate calls are no-ops.
type ArenaAllocator interface {
	Allocator

	// Reset invalidates all outstanding allocations without releasing the
	// arena's underlying memory. The arena can then be reused.
	Reset()

	// Release returns the arena's underlying memory to the runtime. The
	// arena must not be used afterwards.
	Release()

	// Len returns the total number of bytes currently allocated.
	Len() int

	// Cap returns the total number of bytes the arena can hold.
	Cap() int

	// Peak returns the high-water mark of allocated bytes. It survives
	// Reset, so pools can size replacement arenas from real usage.
	Peak() int
}

type monotonicArena struct {
	buffers            []*monotonicBuffer
	peak               uintptr
	minBufferSize      uintptr
	initialBufferCount int
}

type monotonicBuffer struct {
	ptr    unsafe.Pointer
	offset uintptr
	size   uintptr
}

func newMonotonicBuffer(size int) *monotonicBuffer {
	return &monotonicBuffer{size: uintptr(size)}
}

func (s *monotonicBuffer) alloc(size, alignment uintptr) (unsafe.Pointer, bool) {
	if s.ptr == nil {
		buf := make([]byte, s.size) // allocate monotonic buffer lazily
		s.ptr = unsafe.Pointer(unsafe.SliceData(buf))
	}
	alignOffset := uintptr(0)
	for alignedPtr := uintptr(s.ptr) + s.offset; alignedPtr%alignment != 0; alignedPtr++ {
		alignOffset++
	}
	allocSize := size + alignOffset

	if s.availableBytes() < allocSize {
		return nil, false
	}
	ptr := unsafe.Pointer(uintptr(s.ptr) + s.offset + alignOffset)
	s.offset += allocSize

	// This loop is compiled down to a runtime.memclrNoHeapPointers call,
	// which is an assembler optimized implementation.
	b := unsafe.Slice((*byte)(ptr), size)
	for i := range b {
		b[i] = 0
	}

	return ptr, true
}

func (s *monotonicBuffer) reset() {
	if s.offset == 0 {
		return
	}
	s.offset = 0
}

func (s *monotonicBuffer) release() {
	s.offset = 0
	s.ptr = nil
}

func (s *monotonicBuffer) availableBytes() uintptr {
	return s.size - s.offset
}

// NewMonotonicArena creates a bump allocator with optional configuration.
// If no options are provided it uses a 32KB minimum buffer size and creates
// one initial buffer. Containers backed by a monotonic arena never return
// memory early (Deallocate is a no-op); call Reset or Release once the
// container generation is done with its storage.
//
// Arena buffers hold raw bytes the collector does not scan. Containers only
// place pointer-free element types in the arena; see the Allocator contract.
func NewMonotonicArena(opts ...MonotonicArenaOption) ArenaAllocator {
	a := &monotonicArena{
		minBufferSize:      minBufferSize,
		initialBufferCount: 1,
	}

	for _, opt := range opts {
		opt(a)
	}

	for i := 0; i < a.initialBufferCount; i++ {
		a.buffers = append(a.buffers, newMonotonicBuffer(int(a.minBufferSize)))
	}
	return a
}

const (
	minBufferSize = 1024 * 32 // 32KB
)

// MonotonicArenaOption represents a configuration option for a monotonic arena.
type MonotonicArenaOption func(*monotonicArena)

// WithMinBufferSize sets the minimum buffer size for new buffers created by the arena.
func WithMinBufferSize(size int) MonotonicArenaOption {
	return func(a *monotonicArena) {
		a.minBufferSize = uintptr(size)
	}
}

// WithInitialBufferCount sets the number of initial buffers to create.
func WithInitialBufferCount(count int) MonotonicArenaOption {
	return func(a *monotonicArena) {
		a.initialBufferCount = count
	}
}

// Allocate satisfies the Allocator interface.
func (a *monotonicArena) Allocate(size, alignment uintptr) unsafe.Pointer {
	for i := 0; i < len(a.buffers); i++ {
		ptr, ok := a.buffers[i].alloc(size, alignment)
		if ok {
			a.updatePeak()
			return ptr
		}
	}

	// No existing buffer has enough space; add one that is at least
	// minBufferSize but large enough for this allocation.
	newBufferSize := size + alignment
	if newBufferSize < a.minBufferSize {
		newBufferSize = a.minBufferSize
	}
	newBuffer := newMonotonicBuffer(int(newBufferSize))
	a.buffers = append(a.buffers, newBuffer)

	ptr, ok := newBuffer.alloc(size, alignment)
	if !ok {
		// Cannot happen, the buffer was sized for this allocation.
		panic("containers: failed to allocate on newly created arena buffer")
	}
	a.updatePeak()
	return ptr
}

// Reallocate satisfies the Allocator interface. A bump allocator cannot grow
// in place, so this allocates a new block and copies the surviving bytes; the
// old block is abandoned until the next Reset.
func (a *monotonicArena) Reallocate(ptr unsafe.Pointer, oldSize, newSize, alignment uintptr) unsafe.Pointer {
	next := a.Allocate(newSize, alignment)
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

// Deallocate satisfies the Allocator interface. Individual blocks are only
// reclaimed by Reset or Release.
func (a *monotonicArena) Deallocate(unsafe.Pointer, uintptr) {}

// Reset satisfies the ArenaAllocator interface.
func (a *monotonicArena) Reset() {
	for _, s := range a.buffers {
		s.reset()
	}
}

// Release satisfies the ArenaAllocator interface.
func (a *monotonicArena) Release() {
	for _, s := range a.buffers {
		s.release()
	}
}

func (a *monotonicArena) updatePeak() {
	if n := a.len(); n > a.peak {
		a.peak = n
	}
}

func (a *monotonicArena) len() uintptr {
	var total uintptr
	for _, s := range a.buffers {
		total += s.offset
	}
	return total
}

// Len returns the total number of bytes currently allocated in the arena.
func (a *monotonicArena) Len() int {
	return int(a.len())
}

// Cap returns the total capacity (maximum bytes) that can be allocated in the arena.
func (a *monotonicArena) Cap() int {
	var total uintptr
	for _, s := range a.buffers {
		total += s.size
	}
	return int(total)
}

// Peak returns the peak number of bytes that have been allocated in the arena.
// This value is not reset when Reset is called, allowing tracking of maximum usage.
func (a *monotonicArena) Peak() int {
	return int(a.peak)
}
