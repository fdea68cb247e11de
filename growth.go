// SPDX-License-Identifier: Apache-2.0

package containers

// DefaultHeapCapacity is the smallest capacity a container allocates when it
// first moves to heap storage.
const DefaultHeapCapacity = 16

// GrowthFunc computes the capacity to allocate when a container must grow.
// current is the capacity being outgrown and required is the smallest
// capacity that satisfies the pending operation; the result is always at
// least required. Growth policies never shrink: shrinking happens only
// through explicit ShrinkToFit.
type GrowthFunc func(current, required int) int

// DefaultGrowth at least doubles the current capacity, with a floor of
// DefaultHeapCapacity for the first heap allocation. Doubling keeps appends
// amortized O(1): filling a container to N elements performs O(log N)
// reallocations.
func DefaultGrowth(current, required int) int {
	next := current * 2
	if next < DefaultHeapCapacity {
		next = DefaultHeapCapacity
	}
	if next < required {
		next = required
	}
	return next
}

func nextCapacity(grow GrowthFunc, current, required int) int {
	if grow == nil {
		grow = DefaultGrowth
	}
	next := grow(current, required)
	if next < required {
		next = required
	}
	return next
}
