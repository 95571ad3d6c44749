// Package logging builds the zap logger the rest of the ingest tool
// shares, mapping the CLI's 0-3 verbosity option onto zap levels
// (spec §9 Ambient Stack).
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelFor maps verbosity (0-3) to a zap level. Verbosity 0 is not a
// true "silent" zap level: it suppresses the orchestrator's progress
// lines (handled by progressModulo, not by the logger itself) while
// still surfacing errors and warnings, since an archive failure must
// never go unreported regardless of verbosity.
func LevelFor(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	case verbosity == 2:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New builds a production-style zap logger at the level the given
// verbosity selects.
func New(verbosity int) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(LevelFor(verbosity))
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg.Build()
}
