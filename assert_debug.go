// SPDX-License-Identifier: Apache-2.0

//go:build containersdebug

package containers

import "fmt"

// debugAssertIndex panics with a descriptive diagnostic when index is outside
// [0, length). Enabled by the containersdebug build tag; release builds use
// the plain runtime bounds check instead.
func debugAssertIndex(op string, index, length int) {
	if index < 0 || index >= length {
		panic(fmt.Sprintf("%s: index %d out of bounds (length %d)", op, index, length))
	}
}
