/*
Package logger 提供项目统一日志能力。

输出目标由 log.output 决定:
  - stdout: 控制台
  - file:   lumberjack 滚动文件
其他取值在 Init 时返回错误。

组件通过 Named 取子 logger；带 request id 的上下文用 FromContext。
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storefront/config"
	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log       *zap.Logger
	atomLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// ErrUnsupportedOutput 未知的日志输出类型
var ErrUnsupportedOutput = errors.New("unsupported log output")

// Init 按配置构建全局 logger；失败时保留原 logger 不变
func Init(cfg *config.LogConfig, env string) error {
	level := parseLevel(cfg.Level)

	sink, err := newSink(cfg)
	if err != nil {
		return err
	}

	atomLevel.SetLevel(level)
	core := zapcore.NewCore(newEncoder(cfg.Format, env, level), sink, atomLevel)
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

func newEncoder(format, env string, level zapcore.Level) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	switch {
	case format == "json":
		return zapcore.NewJSONEncoder(ec)
	case format == "console", level == zapcore.DebugLevel, env == "dev", env == "development":
		return zapcore.NewConsoleEncoder(ec)
	default:
		return zapcore.NewJSONEncoder(ec)
	}
}

func newSink(cfg *config.LogConfig) (zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case "", "stdout", "console":
		return zapcore.AddSync(os.Stdout), nil
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log output file requires file_path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 7),
			Compress:   cfg.Compress,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOutput, cfg.Output)
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return l
}

// Get 返回全局 logger，未初始化时返回 Nop
func Get() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Named 返回带组件名的子 logger
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// With 全局 logger 附加字段
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// FromContext 附带上下文里的 request id（没有就原样返回）
func FromContext(ctx context.Context) *zap.Logger {
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		return Get().With(zap.String("request_id", id))
	}
	return Get()
}

// Level 当前全局级别
func Level() zapcore.Level {
	return atomLevel.Level()
}

// Sync 刷盘；stdout 在终端/管道上的 sync 错误忽略
func Sync() error {
	if log == nil {
		return nil
	}
	err := log.Sync()
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, benign := range []string{"inappropriate ioctl for device", "invalid argument", "bad file descriptor"} {
		if strings.Contains(msg, benign) {
			return nil
		}
	}
	return err
}

func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { Get().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { Get().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }
