package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

var log *slog.Logger

// Options - дополнительные настройки вывода
type Options struct {
	// File - путь к лог-файлу; пусто = только stdout
	File string
	// MaxAgeDays - сколько дней хранить ротированные файлы
	MaxAgeDays int
}

// Init инициализирует глобальный логгер
// env: "development" -> текст + Debug, иначе JSON + Info
func Init(env string, opts ...Options) error {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	out, err := output(o)
	if err != nil {
		return err
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: env != "test",
	}

	var handler slog.Handler
	if env == "development" {
		handlerOpts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
	return nil
}

// output - stdout, плюс файл с суточной ротацией если задан
func output(o Options) (io.Writer, error) {
	if o.File == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	maxAge := o.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 14
	}

	rl, err := rotatelogs.New(
		o.File+".%Y%m%d",
		rotatelogs.WithLinkName(o.File),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return io.MultiWriter(os.Stdout, rl), nil
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует и завершает процесс
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}

// HTTPLog логирует HTTP запрос
func HTTPLog(method, path string, status int, duration time.Duration, size int) {
	GetLogger().Info("http request",
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size_bytes", size,
	)
}

// WorkerLog логирует операцию фонового воркера
func WorkerLog(worker, operation string, err error) {
	fields := []any{
		"worker", worker,
		"operation", operation,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("worker operation failed", fields...)
	} else {
		GetLogger().Debug("worker operation completed", fields...)
	}
}
