package containers

import (
	"sync"
	"weak"

	"github.com/cespare/xxhash/v2"
)

// Pool provides a thread-safe pool of arena allocators for high-frequency
// container workloads (build a generation of vectors/strings on an arena,
// release it, repeat). It uses weak pointers so the GC may collect idle
// arenas at any time, letting the pool size itself to memory pressure.
//
// By storing PoolItem as weak pointers, the GC can collect them at any time;
// before using a PoolItem we try to get a strong pointer while removing it
// from the pool. Once Release is called the item returns to the pool behind a
// weak pointer again.
type Pool struct {
	// pool is a slice of weak pointers to the struct holding the arena
	pool  []weak.Pointer[PoolItem]
	sizes map[uint64]*poolItemSize
	mu    sync.Mutex
}

// poolItemSize tracks the memory required across the last 50 arenas released
// under a given key, so future arenas for that use case start right-sized.
type poolItemSize struct {
	count      int
	totalBytes int
}

// PoolItem wraps an ArenaAllocator for use in the pool.
type PoolItem struct {
	Arena ArenaAllocator
	Key   uint64
}

// NewArenaPool creates a new Pool instance.
func NewArenaPool() *Pool {
	return &Pool{
		sizes: make(map[uint64]*poolItemSize),
	}
}

// Acquire gets an arena from the pool or creates a new one if none are
// available. The key identifies the use case, so arena sizes can be tuned
// per call site.
func (p *Pool) Acquire(key uint64) *PoolItem {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Try to find an available arena in the pool
	for len(p.pool) > 0 {
		lastIdx := len(p.pool) - 1
		wp := p.pool[lastIdx]
		p.pool = p.pool[:lastIdx]

		v := wp.Value()
		if v != nil {
			v.Key = key
			return v
		}
		// Weak pointer was collected, continue to the next item
	}

	// No arena available, create a new one
	size := WithMinBufferSize(p.getArenaSize(key))
	return &PoolItem{
		Arena: NewMonotonicArena(size),
		Key:   key,
	}
}

// AcquireNamed is Acquire with a string use-case key, hashed with xxhash.
func (p *Pool) AcquireNamed(name string) *PoolItem {
	return p.Acquire(xxhash.Sum64String(name))
}

// Release resets the item's arena and returns it to the pool for reuse. The
// arena's peak usage is recorded to size future arenas for this use case.
// All container storage allocated from the arena is invalid after Release.
func (p *Pool) Release(item *PoolItem) {
	peak := item.Arena.Peak()
	item.Arena.Reset()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.recordPeak(item.Key, peak)
	item.Key = 0

	w := weak.Make(item)
	p.pool = append(p.pool, w)
}

// ReleaseMany returns several items to the pool under a single lock.
func (p *Pool) ReleaseMany(items []*PoolItem) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, item := range items {
		peak := item.Arena.Peak()
		item.Arena.Reset()

		p.recordPeak(item.Key, peak)
		item.Key = 0

		w := weak.Make(item)
		p.pool = append(p.pool, w)
	}
}

func (p *Pool) recordPeak(key uint64, peak int) {
	if size, ok := p.sizes[key]; ok {
		if size.count == 50 {
			size.count = 1
			size.totalBytes = size.totalBytes / 50
		}
		size.count++
		size.totalBytes += peak
	} else {
		p.sizes[key] = &poolItemSize{
			count:      1,
			totalBytes: peak,
		}
	}
}

// getArenaSize returns the optimal arena size for a given use-case key.
// If no size is recorded, it defaults to 1MB.
func (p *Pool) getArenaSize(key uint64) int {
	if size, ok := p.sizes[key]; ok {
		return size.totalBytes / size.count
	}
	return 1024 * 1024 // Default 1MB
}
