// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger receives allocation diagnostics. The default writes to stderr at
// Error level; the fatal allocation path logs through it before exiting.
var logger = newDefaultLogger()

func newDefaultLogger() *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zapcore.ErrorLevel)
	return zap.New(core)
}

// SetLogger replaces the package logger. Passing nil restores the default.
// Not safe to call concurrently with container operations.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = newDefaultLogger()
		return
	}
	logger = l
}
