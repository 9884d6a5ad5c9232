package log

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Production JSON output
// by default; APP_DEBUG flips to the development config.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Module provides the logger and redirects stdlib logging through it.
var Module = fx.Module("log",
	fx.Invoke(func(logger *zap.Logger) {
		zap.ReplaceGlobals(logger)
	}),
)
