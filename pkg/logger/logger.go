package logger

import (
	"bytes"
	"io"

	log "github.com/sirupsen/logrus"
)

// Logger is the logging surface used across lab. *logrus.Logger satisfies it.
type Logger interface {
	Info(...interface{})
	Warn(...interface{})
	Debug(...interface{})
	Error(...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	WithFields(fields log.Fields) *log.Entry
	SetLevel(level log.Level)
	GetLevel() log.Level
	SetOutput(writer io.Writer)
	SetFormatter(formatter log.Formatter)
}

func DebugLevel() log.Level {
	l, _ := log.ParseLevel("debug")
	return l
}

func IsDebugLevel(l Logger) bool {
	return l.GetLevel() >= DebugLevel()
}

func NewLogger() Logger {
	return log.New()
}

// NewNullLogger discards everything. Library code defaults to it.
func NewNullLogger() Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

// NewBufferLogger writes to b, for inspecting logs in tests
func NewBufferLogger(b *bytes.Buffer) Logger {
	logger := log.New()
	logger.SetOutput(b)
	return logger
}
