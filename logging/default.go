package logging

import (
	"context"
	"fmt"
	"log"
	"maps"
	"os"
)

// DefaultLogger is a colored logger implementation using Go's standard log package
// Debug/Info -> stdout (no color)
// Warn -> stderr (yellow)
// Error -> stderr (red)
// Fatal -> stderr (bold red)
type DefaultLogger struct {
	stdoutLogger *log.Logger
	stderrLogger *log.Logger
	level        Level
	fields       Fields
	useColors    bool
}

// NewDefaultLogger creates a new default logger with colored output
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		stdoutLogger: log.New(os.Stdout, "", log.LstdFlags),
		stderrLogger: log.New(os.Stderr, "", log.LstdFlags),
		level:        InfoLevel,
		fields:       make(Fields),
		useColors:    isTerminal(),
	}
}

// NewDefaultLoggerNoColor creates a new default logger without colored output
func NewDefaultLoggerNoColor() *DefaultLogger {
	return &DefaultLogger{
		stdoutLogger: log.New(os.Stdout, "", log.LstdFlags),
		stderrLogger: log.New(os.Stderr, "", log.LstdFlags),
		level:        InfoLevel,
		fields:       make(Fields),
		useColors:    false,
	}
}

// isTerminal checks if stdout looks like a character device
func isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (d *DefaultLogger) formatMessage(level Level, err error, msg string, fields ...Fields) string {
	allFields := make(Fields)
	maps.Copy(allFields, d.fields)
	for _, f := range fields {
		maps.Copy(allFields, f)
	}

	logMsg := fmt.Sprintf("[%s] %s", level.String(), msg)

	if err != nil {
		logMsg += fmt.Sprintf(": %v", err)
	}

	if len(allFields) > 0 {
		logMsg += fmt.Sprintf(" %+v", allFields)
	}

	if d.useColors {
		switch level {
		case WarnLevel:
			logMsg = ColorYellow + logMsg + ColorReset
		case ErrorLevel:
			logMsg = ColorRed + logMsg + ColorReset
		case FatalLevel:
			logMsg = ColorBold + ColorRed + logMsg + ColorReset
		}
	}

	return logMsg
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	if d.level <= DebugLevel {
		d.stdoutLogger.Print(d.formatMessage(DebugLevel, nil, msg, fields...))
	}
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	if d.level <= InfoLevel {
		d.stdoutLogger.Print(d.formatMessage(InfoLevel, nil, msg, fields...))
	}
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	if d.level <= WarnLevel {
		d.stderrLogger.Print(d.formatMessage(WarnLevel, nil, msg, fields...))
	}
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	if d.level <= ErrorLevel {
		d.stderrLogger.Print(d.formatMessage(ErrorLevel, err, msg, fields...))
	}
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.stderrLogger.Print(d.formatMessage(FatalLevel, err, msg, fields...))
	os.Exit(1)
}

// WithFields returns a new logger with the given fields merged into the preset set
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields)
	maps.Copy(newFields, d.fields)
	maps.Copy(newFields, fields)

	return &DefaultLogger{
		stdoutLogger: d.stdoutLogger,
		stderrLogger: d.stderrLogger,
		level:        d.level,
		fields:       newFields,
		useColors:    d.useColors,
	}
}

// WithContext returns the logger unchanged; context extraction is left to
// host applications with richer logging backends
func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	return d
}

// SetLevel sets the minimum log level
func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}
