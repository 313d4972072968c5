package ferr

import (
	"errors"
	"log/slog"
)

// DebugBreak is an optional hook a host application can wire to its own
// callstack-capture machinery (callstack capture is an external
// collaborator, out of scope for this core — see spec §1). When set, it is
// invoked for every Validation and Lifecycle error raised via Report,
// alongside the log line Report always writes, mirroring the source's
// DEBUG_BREAK() macro without requiring a concrete implementation here.
var DebugBreak func(err error)

// logger is the sink every Report call writes through. The zero value logs
// via slog.Default(), matching the rest of the package's nil-means-default
// convention; SetLogger installs a different one.
var logger = slog.Default()

// SetLogger installs the logger Report writes every error kind through.
// gpu.NewContext and cmdexec.NewExecutor call this with their own
// constructor-supplied *slog.Logger, so an error raised deep inside either
// package surfaces through the same sink its caller configured rather than
// the package default.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Report logs err once, at a level matching its Kind (the error-handling
// design's per-kind policy: Validation and Lifecycle are errors, Exhaustion
// is a warning since the caller already clamped and kept going, Driver is
// an error), and runs it through DebugBreak if one is registered and err is
// a Validation or Lifecycle violation. It always returns err unchanged so
// callers can write `return nil, ferr.Report(ferr.New(...))`.
func Report(err error) error {
	if err == nil {
		return err
	}

	var fe *Error
	if !errors.As(err, &fe) {
		logger.Error(err.Error())
		return err
	}

	switch fe.Kind {
	case Exhaustion:
		logger.Warn(fe.Error())
	default:
		logger.Error(fe.Error())
	}

	if DebugBreak != nil && (fe.Kind == Validation || fe.Kind == Lifecycle) {
		DebugBreak(err)
	}
	return err
}
