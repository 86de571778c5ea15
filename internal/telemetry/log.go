// Package telemetry carries the simulator's ambient observability surface:
// structured logging, Prometheus metrics, and the optional HTTP server that
// exposes them, configured the way the pack's internal/obs package does.
package telemetry

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a JSON structured logger at level, optionally also
// writing every entry to logFile through a size-rotated sink. An empty
// logFile logs to stdout/stderr only, matching zap's production defaults.
func NewLogger(level, logFile string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"

	if logFile == "" {
		return cfg.Build()
	}

	encoder := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	stdoutCore, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		Compress:   true,
	})
	fileCore := zapcore.NewCore(encoder, fileWriter, lvl)

	tee := zapcore.NewTee(stdoutCore.Core(), fileCore)
	return zap.New(tee), nil
}

// Field constructors mirroring the pack's convenience wrappers so call
// sites never import zap directly.
func String(k, v string) zap.Field   { return zap.String(k, v) }
func Int(k string, v int) zap.Field  { return zap.Int(k, v) }
func Float64(k string, v float64) zap.Field { return zap.Float64(k, v) }
func Err(err error) zap.Field        { return zap.Error(err) }
