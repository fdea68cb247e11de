// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	custom := zap.NewNop()
	SetLogger(custom)
	require.Same(t, custom, logger)

	// nil restores the default stderr logger.
	SetLogger(nil)
	require.NotNil(t, logger)
	require.NotSame(t, custom, logger)
}
