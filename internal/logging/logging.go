// Package logging builds the diagnostic logger. Diagnostics are off unless a
// level is configured, either through $RGREP_LOG or the config file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvLevel names the environment variable that enables diagnostics.
const EnvLevel = "RGREP_LOG"

// Options configures the diagnostic logger.
type Options struct {
	Level string // debug, info, warn or error; anything else disables logging
	File  string // Rotating log file; empty writes to Stderr

	Stderr io.Writer
}

// Level resolves the configured level, giving $RGREP_LOG precedence over
// fallback.
func Level(fallback string) string {
	if env := os.Getenv(EnvLevel); env != "" {
		return env
	}
	return fallback
}

// parseLevel converts a level name to a zap level. ok is false for empty or
// unknown names.
func parseLevel(name string) (level zapcore.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// New returns a logger for opts. It never fails: when diagnostics are
// disabled or the log file directory cannot be created, it returns a no-op
// logger.
func New(opts Options) *zap.Logger {
	level, ok := parseLevel(opts.Level)
	if !ok {
		return zap.NewNop()
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""

	var sink zapcore.WriteSyncer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return zap.NewNop()
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		})
		encoderConfig.TimeKey = "T"
	} else {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		if isTerminal(stderr) {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		sink = zapcore.AddSync(stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)
	return zap.New(core)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
