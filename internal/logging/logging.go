// Package logging provides the structured loggers used across tradedesk.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper of zap.Logger.
type Logger = *zap.Logger

var (
	mu       sync.RWMutex
	level    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	location = time.UTC
	console  bool
	output   io.Writer = os.Stdout
)

// SetLogLevel sets the global level with ["debug", "info", "warn", "error"].
func SetLogLevel(lvl string) error {
	switch strings.ToLower(lvl) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "info", "":
		level.SetLevel(zapcore.InfoLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		return fmt.Errorf("invalid log level: %s", lvl)
	}
	return nil
}

// Configure sets the time zone used for the ts field and the encoding.
// format is "json" (default) or "console".
func Configure(loc *time.Location, format string) {
	mu.Lock()
	defer mu.Unlock()
	if loc != nil {
		location = loc
	}
	console = strings.EqualFold(format, "console")
}

// New creates a named logger writing to stdout.
func New(name string, fields ...zap.Field) Logger {
	mu.RLock()
	w := output
	mu.RUnlock()
	return NewWithWriter(w, name, fields...)
}

// NewWithWriter creates a named logger writing to w.
func NewWithWriter(w io.Writer, name string, fields ...zap.Field) Logger {
	mu.RLock()
	loc, useConsole := location, console
	mu.RUnlock()

	cfg := encoderConfig(loc)
	var enc zapcore.Encoder
	if useConsole {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named(name).With(fields...)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return zap.NewNop()
}

func encoderConfig(loc *time.Location) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "component",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.In(loc).Format(time.RFC3339Nano))
		},
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
