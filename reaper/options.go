package reaper

import (
	"time"

	"github.com/go-playground/log"
)

// Logger is the diagnostic channel for the worker. Errors inside the worker
// cannot propagate to any caller, so they are reported here.
//
// The worker logs while it may be waiting on the call gate, so an
// implementation must not block on locks held by callers of the gate.
// Mark never calls the logger on the caller's goroutine.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type playgroundLogger struct{}

func (playgroundLogger) Debugf(format string, v ...interface{}) { log.Debugf(format, v...) }
func (playgroundLogger) Warnf(format string, v ...interface{})  { log.Warnf(format, v...) }
func (playgroundLogger) Errorf(format string, v ...interface{}) { log.Errorf(format, v...) }

// DefaultLogger writes to the go-playground/log handlers.
var DefaultLogger Logger = playgroundLogger{}

// Options configures a Reaper.
type Options struct {
	// IdleInterval is the sleep between drain cycles.
	IdleInterval time.Duration

	// Logger receives worker diagnostics. Defaults to DefaultLogger.
	Logger Logger
}

// Option is a functional option for New.
type Option func(*Options)

// WithIdleInterval sets the sleep between drain cycles.
func WithIdleInterval(d time.Duration) Option {
	return func(o *Options) {
		o.IdleInterval = d
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
