// Package logging configures the process-wide zap logger.
//
// Interactive commands log human-readable lines to stderr so stdout
// stays clean for data output. The run command additionally writes
// JSON to a rotated file when [log] file is set.
package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	global *zap.Logger
	once   sync.Once
)

// Config controls logger construction.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Init builds the global logger. The first call wins; later calls are
// no-ops so libraries cannot reconfigure logging out from under the CLI.
func Init(cfg Config) *zap.Logger {
	once.Do(func() {
		level := parseLevel(cfg.Level)

		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}

		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			level,
		)

		var fileCore zapcore.Core
		if cfg.File != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err == nil {
				fileWriter := zapcore.AddSync(&lumberjack.Logger{
					Filename:   cfg.File,
					MaxSize:    cfg.MaxSizeMB,
					MaxBackups: cfg.MaxBackups,
					MaxAge:     cfg.MaxAgeDays,
					Compress:   cfg.Compress,
				})
				fileCore = zapcore.NewCore(
					zapcore.NewJSONEncoder(encoderConfig),
					fileWriter,
					level,
				)
			}
		}

		core := consoleCore
		if fileCore != nil {
			core = zapcore.NewTee(consoleCore, fileCore)
		}

		global = zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
	})
	return global
}

// L returns the global logger, or a no-op logger before Init.
func L() *zap.Logger {
	if global == nil {
		return zap.NewNop()
	}
	return global
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
