package logging

import (
	"errors"
	"fmt"
	"os"
)

// logger is a global reference to a shared Logger (created/initialized with
// the compiler, but separated for general usage)
var logger Logger

// Initialize initializes the global logger with the provided log level name.
// An empty name falls back to the `LOG` environment variable, then to `info`.
func Initialize(loglevelname string) {
	if loglevelname == "" {
		loglevelname = os.Getenv("LOG")
	}

	var loglevel int
	switch loglevelname {
	case "trace":
		loglevel = LogLevelTrace
	case "debug":
		loglevel = LogLevelDebug
	case "warn":
		loglevel = LogLevelWarn
	case "error":
		loglevel = LogLevelError
	case "critical":
		loglevel = LogLevelCritical
	// everything else (including invalid log levels) should default to info
	default:
		loglevel = LogLevelInfo
	}

	logger = newLogger(loglevel)
}

// LogContext carries the information diagnostics need to render source
// context: the path of the file being compiled and its full text
type LogContext struct {
	FilePath string
	Source   string
}

// -----------------------------------------------------------------------------
// NOTE: The leveled log functions only display if the appropriate log level
// is set.  Compile errors and configuration errors always display, and
// compile errors terminate the process.

// osExit is what a fatal diagnostic calls to terminate the process; kept as
// a variable so the exit path stays swappable
var osExit = os.Exit

// LogCompileError logs a compilation error (user-induced, bad code) with
// span-anchored source context and exits with code 1.  There is no recovery.
// Under TrapFatals the diagnostic unwinds to the trap instead of exiting.
func LogCompileError(lctx *LogContext, message string, kind int, span Span) {
	if trapping {
		panic(&FatalError{Message: message, Kind: kind, Span: span})
	}

	logger.handleMsg(&CompileMessage{
		Message: message,
		Kind:    kind,
		Span:    span,
		Context: lctx,
	})
	osExit(1)
}

// LogModuleError logs a module-open failure.  This is the one soft error in
// the compiler: it is reported and parsing continues.
func LogModuleError(resolvedPath, name, importer string) {
	if logger.LogLevel <= LogLevelError {
		PrintErrorMessage("Module Error", fmt.Errorf(
			"failed to open module: %s (resolved from: %s in %s)", resolvedPath, name, importer))
	}
}

// LogConfigError logs an error related to project or compiler configuration
func LogConfigError(kind, message string) {
	PrintErrorMessage(kind+" Error", errors.New(message))
}

// Tracef logs a pipeline trace message (scanner/parser/walker progress)
func Tracef(format string, args ...interface{}) {
	if logger.LogLevel <= LogLevelTrace {
		fmt.Printf(format+"\n", args...)
	}
}

// Debugf logs a debug message visible at the `debug` level and below
func Debugf(format string, args ...interface{}) {
	if logger.LogLevel <= LogLevelDebug {
		fmt.Printf(format+"\n", args...)
	}
}

// Infof logs a user-facing progress message
func Infof(format string, args ...interface{}) {
	if logger.LogLevel <= LogLevelInfo {
		fmt.Printf(format+"\n", args...)
	}
}
