// SPDX-License-Identifier: Apache-2.0

// Package containers provides allocator-aware growable containers with
// small-size optimization: a generic Vector[T] and a null-terminated String,
// both storing small payloads inline in the container value and switching to
// allocator-backed heap storage only when they outgrow the inline capacity.
//
// All heap storage is obtained through the Allocator capability. The default
// allocator uses the Go heap; arena allocators (MonotonicArena, Pool) are
// provided for workloads that want bulk reclamation and reduced GC pressure.
//
// Containers are not safe for concurrent use; callers synchronize externally.
// Allocators state their own thread-safety contract (see ConcurrentArena).
package containers
