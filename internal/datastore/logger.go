// Package datastore logging helpers and gorm logger bridge.
package datastore

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/dovewatch/dovewatch-go/internal/logging"
)

var (
	datastoreLogger *slog.Logger
	loggerOnce      sync.Once
)

// logger returns the datastore service logger, falling back to the default
// slog logger when logging.Init has not been called (tests).
func logger() *slog.Logger {
	loggerOnce.Do(func() {
		datastoreLogger = logging.ForService("datastore")
		if datastoreLogger == nil {
			datastoreLogger = slog.Default().With("service", "datastore")
		}
	})
	return datastoreLogger
}

// slogWriter adapts the datastore slog logger to gorm's Printf-style writer.
type slogWriter struct{}

func (w *slogWriter) Printf(format string, args ...any) {
	logger().Warn(fmt.Sprintf(format, args...))
}

// createGormLogger returns a gorm logger that forwards slow query and error
// output to the datastore service logger.
func createGormLogger() gormlogger.Interface {
	return gormlogger.New(&slogWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
