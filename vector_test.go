// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// failingAllocator refuses every request, simulating exhaustion.
type failingAllocator struct{}

func (failingAllocator) Allocate(uintptr, uintptr) unsafe.Pointer { return nil }
func (failingAllocator) Reallocate(unsafe.Pointer, uintptr, uintptr, uintptr) unsafe.Pointer {
	return nil
}
func (failingAllocator) Deallocate(unsafe.Pointer, uintptr) {}

func requireVectorInvariants[T any](t *testing.T, v *Vector[T]) {
	t.Helper()
	require.GreaterOrEqual(t, v.Len(), 0)
	require.LessOrEqual(t, v.Len(), v.Cap())
}

func TestVectorNewIsEmptyInline(t *testing.T) {
	v := New[int]()
	require.Equal(t, 0, v.Len())
	require.Equal(t, InlineCapacity, v.Cap())
	require.True(t, v.IsEmpty())
	require.True(t, v.IsInline())
	requireVectorInvariants(t, v)
}

func TestVectorPushBackPopBack(t *testing.T) {
	v := New[int]()
	for i := 0; i < 5; i++ {
		require.NoError(t, v.PushBack(i))
	}
	require.Equal(t, 5, v.Len())

	got, err := v.At(2)
	require.NoError(t, err)
	require.Equal(t, 2, got)

	last, ok := v.PopBack()
	require.True(t, ok)
	require.Equal(t, 4, last)
	require.Equal(t, 4, v.Len())

	v.Clear()
	_, ok = v.PopBack()
	require.False(t, ok)
}

func TestVectorPushFrontPopFront(t *testing.T) {
	v := New[string]()
	require.NoError(t, v.PushBack("b"))
	require.NoError(t, v.PushFront("a"))
	require.NoError(t, v.PushBack("c"))

	first, ok := v.Front()
	require.True(t, ok)
	require.Equal(t, "a", first)

	popped, ok := v.PopFront()
	require.True(t, ok)
	require.Equal(t, "a", popped)
	require.Equal(t, 2, v.Len())
	require.Equal(t, "b", v.Get(0))
	require.Equal(t, "c", v.Get(1))

	v.Clear()
	_, ok = v.PopFront()
	require.False(t, ok)
}

func TestVectorInlineToHeapTransition(t *testing.T) {
	counting := NewCountingAllocator(nil)
	v := New(WithAllocator[int](counting))

	// Filling the inline storage must not touch the allocator.
	for i := 0; i < InlineCapacity; i++ {
		require.NoError(t, v.PushBack(i))
		require.True(t, v.IsInline())
		require.Equal(t, InlineCapacity, v.Cap())
	}
	require.EqualValues(t, 0, counting.HeapOperations())

	// The next push performs exactly one allocation and moves to the heap.
	require.NoError(t, v.PushBack(InlineCapacity))
	require.False(t, v.IsInline())
	require.EqualValues(t, 1, counting.HeapOperations())
	require.GreaterOrEqual(t, v.Cap(), InlineCapacity+1)

	for i := 0; i <= InlineCapacity; i++ {
		require.Equal(t, i, v.Get(i))
	}
	requireVectorInvariants(t, v)
}

func TestVectorGrowthIsLogarithmic(t *testing.T) {
	counting := NewCountingAllocator(nil)
	v := New(WithAllocator[int](counting))

	const n = 1000
	for i := 0; i < n; i++ {
		require.NoError(t, v.PushBack(i))
		require.GreaterOrEqual(t, v.Cap(), v.Len())
	}
	// Doubling growth: one promotion plus ~log2(1000/16) reallocations.
	require.LessOrEqual(t, counting.HeapOperations(), int64(10))
	require.Equal(t, n, v.Len())
}

func TestVectorGrowthNeverShrinksCapacity(t *testing.T) {
	v := New[int]()
	require.NoError(t, v.Reserve(100))
	capBefore := v.Cap()
	require.Equal(t, 100, capBefore)

	// Reserving less is a no-op.
	require.NoError(t, v.Reserve(10))
	require.Equal(t, capBefore, v.Cap())

	// Resizing down keeps capacity.
	require.NoError(t, v.Resize(50))
	require.NoError(t, v.Resize(3))
	require.Equal(t, capBefore, v.Cap())
}

func TestVectorInsertEraseRoundTrip(t *testing.T) {
	v, err := NewWithCapacity[int](10)
	require.NoError(t, err)
	require.Equal(t, 10, v.Cap())

	for i := 0; i < 10; i++ {
		require.NoError(t, v.PushBack(i))
	}

	require.NoError(t, v.Insert(1337, 5))
	require.Equal(t, 11, v.Len())
	expect := []int{0, 1, 2, 3, 4, 1337, 5, 6, 7, 8, 9}
	for i, want := range expect {
		require.Equal(t, want, v.Get(i))
	}

	require.NoError(t, v.Erase(5))
	require.Equal(t, 10, v.Len())
	for i := 0; i < 10; i++ {
		require.Equal(t, i, v.Get(i))
	}
}

func TestVectorInsertBounds(t *testing.T) {
	v := New[int]()
	require.NoError(t, v.Insert(1, 0)) // insert at length appends
	require.NoError(t, v.Insert(2, 1))

	err := v.Insert(3, 5)
	require.ErrorIs(t, err, ErrOutOfBounds)
	err = v.Insert(3, -1)
	require.ErrorIs(t, err, ErrOutOfBounds)
	require.Equal(t, 2, v.Len())
}

func TestVectorEraseNClampsPastEnd(t *testing.T) {
	v := New[int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, v.PushBack(i))
	}

	// Range reaching past the end removes through the last element.
	require.NoError(t, v.EraseN(7, 100))
	require.Equal(t, 7, v.Len())
	require.Equal(t, 6, v.Get(6))

	// The start index itself is still bounds-checked.
	err := v.EraseN(8, 1)
	require.ErrorIs(t, err, ErrOutOfBounds)
	err = v.EraseN(0, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, v.EraseN(0, 3))
	require.Equal(t, 4, v.Len())
	require.Equal(t, 3, v.Get(0))
}

func TestVectorAtBounds(t *testing.T) {
	v := New[int]()
	require.NoError(t, v.PushBack(42))

	_, err := v.At(1)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = v.At(-1)
	require.ErrorIs(t, err, ErrOutOfBounds)

	ref, err := v.Ref(0)
	require.NoError(t, err)
	*ref = 43
	require.Equal(t, 43, v.Get(0))

	_, err = v.Ref(1)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestVectorResizeHooks(t *testing.T) {
	destroyed := 0
	v := New(WithHooks[int](ElementHooks[int]{
		New:     func(Allocator) int { return -1 },
		Destroy: func(elem *int, _ Allocator) { destroyed++ },
	}))

	require.NoError(t, v.Resize(4))
	require.Equal(t, 4, v.Len())
	for i := 0; i < 4; i++ {
		require.Equal(t, -1, v.Get(i))
	}

	require.NoError(t, v.Resize(1))
	require.Equal(t, 3, destroyed)
	require.Equal(t, 1, v.Len())

	err := v.Resize(-1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVectorClearDestroysButKeepsCapacity(t *testing.T) {
	destroyed := 0
	v := New(WithHooks[int](ElementHooks[int]{
		Destroy: func(*int, Allocator) { destroyed++ },
	}))
	for i := 0; i < 20; i++ {
		require.NoError(t, v.PushBack(i))
	}
	capBefore := v.Cap()

	v.Clear()
	require.Equal(t, 0, v.Len())
	require.Equal(t, 20, destroyed)
	require.Equal(t, capBefore, v.Cap())
}

func TestVectorShrinkToFit(t *testing.T) {
	v := New[int]()
	for i := 0; i < 100; i++ {
		require.NoError(t, v.PushBack(i))
	}
	require.NoError(t, v.Resize(30))

	require.NoError(t, v.ShrinkToFit())
	require.Equal(t, 30, v.Cap())
	capAfter := v.Cap()

	// Idempotent.
	require.NoError(t, v.ShrinkToFit())
	require.Equal(t, capAfter, v.Cap())

	for i := 0; i < 30; i++ {
		require.Equal(t, i, v.Get(i))
	}
}

func TestVectorShrinkToFitDemotesToInline(t *testing.T) {
	v := New[int]()
	for i := 0; i < 50; i++ {
		require.NoError(t, v.PushBack(i))
	}
	require.False(t, v.IsInline())

	require.NoError(t, v.Resize(InlineCapacity-2))
	require.NoError(t, v.ShrinkToFit())
	require.True(t, v.IsInline())
	require.Equal(t, InlineCapacity, v.Cap())
	for i := 0; i < InlineCapacity-2; i++ {
		require.Equal(t, i, v.Get(i))
	}
}

func TestVectorCloneIsDeepAndIndependent(t *testing.T) {
	copies := 0
	v := New(WithHooks[int](ElementHooks[int]{
		Copy: func(elem *int, _ Allocator) int { copies++; return *elem },
	}))
	for i := 0; i < 12; i++ {
		require.NoError(t, v.PushBack(i))
	}

	clone, err := v.Clone()
	require.NoError(t, err)
	require.Equal(t, v.Len(), clone.Len())
	require.Equal(t, 12, copies)
	for i := 0; i < 12; i++ {
		require.Equal(t, v.Get(i), clone.Get(i))
	}

	// Distinct storage: mutating the clone leaves the original untouched.
	clone.Set(0, 999)
	require.NoError(t, clone.PushBack(100))
	require.Equal(t, 0, v.Get(0))
	require.Equal(t, 12, v.Len())
}

func TestVectorFreeReturnsToInlineState(t *testing.T) {
	destroyed := 0
	counting := NewCountingAllocator(nil)
	v := New(
		WithAllocator[int](counting),
		WithHooks[int](ElementHooks[int]{Destroy: func(*int, Allocator) { destroyed++ }}),
	)
	for i := 0; i < 32; i++ {
		require.NoError(t, v.PushBack(i))
	}

	v.Free()
	require.Equal(t, 32, destroyed)
	require.Equal(t, 0, v.Len())
	require.True(t, v.IsInline())
	require.Greater(t, counting.Stats().Deallocations, int64(0))

	// Reusable after Free.
	require.NoError(t, v.PushBack(7))
	require.Equal(t, 7, v.Get(0))
}

func TestVectorWithoutInlineStorage(t *testing.T) {
	counting := NewCountingAllocator(nil)
	v := New(WithoutInlineStorage[int](), WithAllocator[int](counting))
	require.Equal(t, 0, v.Cap())
	require.False(t, v.IsInline())

	require.NoError(t, v.PushBack(1))
	require.Equal(t, DefaultHeapCapacity, v.Cap())
	require.EqualValues(t, 1, counting.HeapOperations())
}

func TestVectorRecoverableAllocationFailure(t *testing.T) {
	v := New(WithAllocator[int](Recoverable(failingAllocator{})))
	for i := 0; i < InlineCapacity; i++ {
		require.NoError(t, v.PushBack(i))
	}

	// Inline storage is exhausted and the allocator refuses to grow.
	err := v.PushBack(99)
	require.ErrorIs(t, err, ErrAllocationFailure)

	// The vector is untouched by the failed operation.
	require.Equal(t, InlineCapacity, v.Len())
	require.True(t, v.IsInline())
	for i := 0; i < InlineCapacity; i++ {
		require.Equal(t, i, v.Get(i))
	}
}

var gcChurnSink []byte

func TestVectorPointerElementsSurviveGC(t *testing.T) {
	v := New[*int64]()

	const n = 512
	for i := 0; i < n; i++ {
		x := int64(i)
		require.NoError(t, v.PushBack(&x))
	}
	require.False(t, v.IsInline())

	// The pointees' only references live inside the vector's heap storage.
	// That storage must be visible to the collector, or a GC cycle plus
	// allocation churn reuses the pointees' memory under live pointers.
	runtime.GC()
	for i := 0; i < n; i++ {
		gcChurnSink = make([]byte, 1024)
	}
	runtime.GC()

	for i := 0; i < n; i++ {
		require.Equal(t, int64(i), *v.Get(i), "index %d corrupted", i)
	}
}

func TestVectorPointerElementsUseManagedStorage(t *testing.T) {
	counting := NewCountingAllocator(nil)
	v := New(WithAllocator[*int64](counting))

	for i := 0; i < 4*InlineCapacity; i++ {
		x := int64(i)
		require.NoError(t, v.PushBack(&x))
	}
	require.False(t, v.IsInline())

	// Pointer-containing elements never enter raw allocator memory; their
	// storage comes from the Go heap so the collector scans it.
	require.EqualValues(t, 0, counting.HeapOperations())

	v.Free()
	require.EqualValues(t, 0, counting.Stats().Deallocations)
}

func TestVectorArenaBacked(t *testing.T) {
	arena := NewMonotonicArena(WithMinBufferSize(4096))
	v := New(WithAllocator[int64](arena))
	for i := int64(0); i < 100; i++ {
		require.NoError(t, v.PushBack(i))
	}
	require.Equal(t, 100, v.Len())
	require.Greater(t, arena.Len(), 0)
	for i := 0; i < 100; i++ {
		require.Equal(t, int64(i), v.Get(i))
	}
}

func TestVectorIterator(t *testing.T) {
	v := New[int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, v.PushBack(i * 2))
	}

	it := v.Iterator()
	sum := 0
	count := 0
	for it.Next() {
		sum += it.Value()
		count++
	}
	require.Equal(t, 10, count)
	require.Equal(t, 90, sum)

	require.NoError(t, it.Seek(3))
	require.Equal(t, 6, it.Value())
	*it.Ref() = 7
	require.Equal(t, 7, v.Get(3))

	require.True(t, it.Prev())
	require.Equal(t, 4, it.Value())

	require.ErrorIs(t, it.Seek(10), ErrOutOfBounds)
}

func TestVectorView(t *testing.T) {
	v := New[int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, v.PushBack(i))
	}

	all := v.View()
	require.Equal(t, 10, all.Len())
	require.Equal(t, 9, all.Get(9))

	sub, err := v.ViewRange(2, 3)
	require.NoError(t, err)
	require.Equal(t, 3, sub.Len())
	require.Equal(t, []int{2, 3, 4}, sub.Slice())

	narrower, err := sub.Sub(1, 2)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, narrower.Slice())

	_, err = v.ViewRange(8, 5)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = v.ViewRange(0, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Views write through to the vector.
	all.Slice()[0] = 42
	require.Equal(t, 42, v.Get(0))
}

func TestVectorViewInvalidatedByGrowth(t *testing.T) {
	v := New[int]()
	for i := 0; i < InlineCapacity; i++ {
		require.NoError(t, v.PushBack(i))
	}
	view := v.View()
	require.Equal(t, 0, view.Get(0))

	// Growth moves the elements; the view still points at the old inline
	// storage, which the vector has zeroed. This documents the
	// invalidation rule rather than a supported use.
	require.NoError(t, v.PushBack(InlineCapacity))
	require.Equal(t, 0, view.Get(1))
	require.Equal(t, 1, v.Get(1))
}
