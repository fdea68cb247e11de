// SPDX-License-Identifier: Apache-2.0

//go:build !containersdebug

package containers

// debugAssertIndex is compiled out unless the containersdebug build tag is
// set. Without it the unchecked accessors rely on the runtime's own slice
// bounds check, which panics without operation context.
func debugAssertIndex(string, int, int) {}
