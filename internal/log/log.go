// Package log provides the structured logger used throughout the mock
// server and CLI: a thin, teacher-shaped wrapper around logrus exposing a
// small Logger interface plus a package-level default instance.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level mirrors logrus.Level under names that don't leak the dependency
// into every call site.
type Level uint32

const (
	Error Level = Level(logrus.ErrorLevel)
	Warn  Level = Level(logrus.WarnLevel)
	Info  Level = Level(logrus.InfoLevel)
	Debug Level = Level(logrus.DebugLevel)
)

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the interface the rest of the tree depends on, so a NoOpLogger
// or a test double can stand in without pulling in logrus.
type Logger interface {
	Debug(fmt string, args ...interface{})
	Info(fmt string, args ...interface{})
	Warn(fmt string, args ...interface{})
	Error(fmt string, args ...interface{})
	WithFields(Fields) Logger
	SetLevel(Level)
	GetLevel() Level
}

// StandardLogger is the default Logger implementation, backed by logrus.
type StandardLogger struct {
	entry *logrus.Entry
}

// New returns a StandardLogger writing text-formatted entries to stderr at
// Info level.
func New() *StandardLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return &StandardLogger{entry: logrus.NewEntry(l)}
}

// NewJSON returns a StandardLogger writing JSON-formatted entries, for
// deployments that ship logs to a collector rather than a terminal.
func NewJSON(w io.Writer) *StandardLogger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	return &StandardLogger{entry: logrus.NewEntry(l)}
}

func (s *StandardLogger) Debug(f string, args ...interface{}) { s.entry.Debugf(f, args...) }
func (s *StandardLogger) Info(f string, args ...interface{})  { s.entry.Infof(f, args...) }
func (s *StandardLogger) Warn(f string, args ...interface{})  { s.entry.Warnf(f, args...) }
func (s *StandardLogger) Error(f string, args ...interface{}) { s.entry.Errorf(f, args...) }

func (s *StandardLogger) WithFields(fields Fields) Logger {
	return &StandardLogger{entry: s.entry.WithFields(logrus.Fields(fields))}
}

func (s *StandardLogger) SetLevel(level Level) {
	s.entry.Logger.SetLevel(logrus.Level(level))
}

func (s *StandardLogger) GetLevel() Level {
	return Level(s.entry.Logger.GetLevel())
}

// NoOpLogger discards everything; used in tests that don't want log noise.
type NoOpLogger struct{}

func NewNoOpLogger() *NoOpLogger                 { return &NoOpLogger{} }
func (*NoOpLogger) Debug(string, ...interface{}) {}
func (*NoOpLogger) Info(string, ...interface{})  {}
func (*NoOpLogger) Warn(string, ...interface{})  {}
func (*NoOpLogger) Error(string, ...interface{}) {}
func (n *NoOpLogger) WithFields(Fields) Logger   { return n }
func (*NoOpLogger) SetLevel(Level)               {}
func (*NoOpLogger) GetLevel() Level              { return Info }

var std Logger = New()

// Get returns the package-level default logger.
func Get() Logger { return std }

// SetDefault replaces the package-level default logger.
func SetDefault(l Logger) { std = l }
