// Package logger provides a zap-based application logger.
package logger

import "go.uber.org/zap"

// Log is the global zap logger used across the project.
var Log *zap.Logger

// Init configures the global logger in production mode.
func Init() {
	var err error
	Log, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
}

// Sugar returns the sugared form of the global logger, initializing a
// no-op logger first if Init was never called.
func Sugar() *zap.SugaredLogger {
	if Log == nil {
		Log = zap.NewNop()
	}
	return Log.Sugar()
}
