package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels for -v flag counts
const (
	VerbosityQuiet = 0 // warnings and errors
	VerbosityInfo  = 1 // -v: progress
	VerbosityDebug = 2 // -vv: per operation details
)

// VerbosityToLevel maps -v counts to zap levels
//
//	0 (none) -> WarnLevel
//	1 (-v)   -> InfoLevel
//	2+ (-vv) -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
