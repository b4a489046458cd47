package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger. Debug mode gets the human-readable
// development config at debug level; otherwise JSON at info level.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
