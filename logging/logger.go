package logging

// Logger is a type that is responsible for storing and logging output from the
// compiler as necessary
type Logger struct {
	errorCount int // Total encountered errors
	LogLevel   int
}

// Enumeration of the different log levels, matching the values accepted by the
// `LOG` environment variable
const (
	LogLevelTrace = iota
	LogLevelDebug
	LogLevelInfo // DEFAULT
	LogLevelWarn
	LogLevelError
	LogLevelCritical
)

// newLogger creates a new logger struct
func newLogger(loglevel int) Logger {
	return Logger{LogLevel: loglevel}
}

// handleMsg prompts the logger to process a compile message.  All compile
// errors are fatal: the message is displayed and the process exits with code 1
// at the point of detection.
func (l *Logger) handleMsg(cm *CompileMessage) {
	l.errorCount++
	cm.display()
}
