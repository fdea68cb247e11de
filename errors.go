// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"github.com/pkg/errors"
)

// Error kinds reported by container operations. Callers branch on them with
// errors.Is; the returned errors carry the failing operation and indices as
// wrapping context.
var (
	// ErrOutOfBounds reports an index or range outside [0, length].
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidArgument reports a meaningless argument, such as a negative
	// count or a nil source.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAllocationFailure reports allocator exhaustion. It is only ever
	// returned when the failing allocator is wrapped with Recoverable;
	// otherwise allocation failure terminates the process.
	ErrAllocationFailure = errors.New("allocation failure")
)

func outOfBounds(op string, index, length int) error {
	return errors.Wrapf(ErrOutOfBounds, "%s: index %d, length %d", op, index, length)
}

func outOfBoundsRange(op string, index, count, length int) error {
	return errors.Wrapf(ErrOutOfBounds, "%s: range [%d, %d), length %d", op, index, index+count, length)
}

func invalidArgument(op, detail string) error {
	return errors.Wrapf(ErrInvalidArgument, "%s: %s", op, detail)
}
