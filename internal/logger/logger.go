// Package logger provides leveled, structured logging backed by zap.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a minimum logging level.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

var levelNames = map[string]Level{
	"debug":  LevelDebug,
	"info":   LevelInfo,
	"warn":   LevelWarn,
	"error":  LevelError,
	"silent": LevelSilent,
}

// ParseLevel parses a level name such as "warn". Case is ignored.
func ParseLevel(s string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("unknown log level %q (want debug, info, warn, error or silent)", s)
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	}
	// Above fatal: nothing is enabled.
	return zapcore.FatalLevel + 1
}

// Logger is the structured logger passed to shuffle's stages.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
	Sync() error
}

// Field is a structured log field.
type Field = zap.Field

// F builds a field from any value. Errors are logged by message.
func F(key string, value any) Field {
	return zap.Any(key, value)
}

type zapLogger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// NewLogger creates a console logger writing to out (default: stderr).
func NewLogger(level Level, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	atom := zap.NewAtomicLevelAt(level.zapLevel())

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(out), atom)
	return &zapLogger{Logger: zap.New(core), level: atom}
}

// NewProduction builds a JSON logger from zap's production config at level.
func NewProduction(level Level) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{Logger: base, level: cfg.Level}, nil
}

// NewSilentLogger creates a logger that outputs nothing
func NewSilentLogger() Logger {
	return &zapLogger{Logger: zap.NewNop(), level: zap.NewAtomicLevelAt(LevelSilent.zapLevel())}
}

func (l *zapLogger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	return &zapLogger{Logger: l.With(fields...), level: l.level}
}

var defaultLogger = NewLogger(LevelWarn, os.Stderr)

// SetDefault sets the process-wide logger used when none is injected.
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger
}
