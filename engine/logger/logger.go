// Package logger holds the process-wide zerolog logger shared by every engine package.
// It is silent until the host installs a logger with SetLogger.
package logger

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// loggerPtr stores the active logger so SetLogger can race with logging from any goroutine.
var loggerPtr atomic.Pointer[zerolog.Logger]

// warned records the keys already reported through WarnOnce.
var warned sync.Map

func init() {
	nop := zerolog.Nop()
	loggerPtr.Store(&nop)
}

// SetLogger installs l as the logger for the engine and all of its sub-packages.
//
// Parameters:
//   - l: the logger to install; zerolog.Nop() restores the silent default
func SetLogger(l zerolog.Logger) {
	loggerPtr.Store(&l)
}

// Logger returns the current engine logger.
//
// Returns:
//   - *zerolog.Logger: the active logger, never nil
func Logger() *zerolog.Logger {
	return loggerPtr.Load()
}

// New builds a console logger writing to w at the given level.
// Unknown or empty levels fall back to info. A nil writer writes to stderr.
//
// Parameters:
//   - level: a zerolog level name such as "debug", "info" or "warn"
//   - w: the destination writer
//
// Returns:
//   - zerolog.Logger: the configured logger
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("component", "oxy-draw").Logger()
}

// WarnOnce logs msg at warn level the first time key is seen and drops every later call with the same key.
//
// Parameters:
//   - key: identifies the warning
//   - msg: the message to log
//
// Returns:
//   - bool: true if the warning was logged by this call
func WarnOnce(key, msg string) bool {
	if _, loaded := warned.LoadOrStore(key, struct{}{}); loaded {
		return false
	}
	Logger().Warn().Str("key", key).Msg(msg)
	return true
}

// ResetWarnings forgets every key reported through WarnOnce.
func ResetWarnings() {
	warned.Range(func(k, _ any) bool {
		warned.Delete(k)
		return true
	})
}
