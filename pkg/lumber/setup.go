// Package lumber is the logging facade of check-test. Every stage logs
// through Logger, the binary picks zap or logrus behind it and tags the run
// with WithFields.
package lumber

import "github.com/ClevertecFrontendLab/check-test/pkg/errs"

// LoggingConfig is the LogConfig block of the check-test config. Console
// output goes to the job log, file output is rotated by lumberjack.
// logrus has a single level for both writers and uses ConsoleLevel when set.
type LoggingConfig struct {
	EnableConsole     bool
	ConsoleJSONFormat bool
	ConsoleLevel      string
	EnableFile        bool
	FileJSONFormat    bool
	FileLevel         string
	FileLocation      string
}

// Fields are attached to every line of a derived Logger, such as the runID
// and pull request of a run
type Fields map[string]interface{}

// Levels accepted by ConsoleLevel and FileLevel
const (
	Debug = "debug"
	Info  = "info"
	Warn  = "warn"
	Error = "error"
	Fatal = "fatal"
)

// Logger implementations selectable in NewLogger; the binary uses zap.
const (
	InstanceZapLogger int = iota
	InstanceLogrusLogger
)

// Logger is what the pipeline stages log through
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	// Fatalf logs and exits the process with status 1.
	Fatalf(format string, args ...interface{})
	// Panicf logs and panics, the pipeline recovers it as a failed run.
	Panicf(format string, args ...interface{})
	// WithFields returns a Logger that adds fields to every line.
	WithFields(keyValues Fields) Logger
}

// NewLogger builds the logger selected by loggerInstance. verbose forces
// the console level to debug.
func NewLogger(config LoggingConfig, verbose bool, loggerInstance int) (Logger, error) {
	switch loggerInstance {
	case InstanceZapLogger:
		logger := newZapLogger(config, verbose)
		return logger, nil

	case InstanceLogrusLogger:
		logger, err := newLogrusLogger(config, verbose)
		if err != nil {
			return nil, err
		}
		return logger, nil

	default:
		return nil, errs.ErrInvalidLoggerInstance
	}
}

// file rotation limits shared by both implementations
const (
	maxFileSizeMB  = 100
	maxFileAgeDays = 28
	maxBackups     = 3
)
