// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// nullLogger is a logger that discards all log messages.
	nullLogger Logger = &instance{log: hclog.NewInterceptLogger(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.Off})}
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

func LevelFromString(level string) Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l Level) convertedLevel() hclog.Level {
	switch l {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case INFO:
		return hclog.Info
	case WARN:
		return hclog.Warn
	case ERROR:
		return hclog.Error
	default:
		return hclog.Info
	}
}

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
	TRACE
)

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// WithName returns a new Logger instance with the specified name.
	// The new instance shares the sinks of its parent.
	WithName(name string) Logger

	// SetLevel updates the logger level. It doesn't change the level of the sinks.
	SetLevel(level Level)

	// RegisterSink adds a sink receiving every entry emitted through the logger
	// and its named children.
	RegisterSink(sink hclog.SinkAdapter)

	// DeregisterSink removes a sink added with RegisterSink.
	DeregisterSink(sink hclog.SinkAdapter)

	// Log emit a message and key/value pairs at the given hclog level.
	Log(level hclog.Level, msg string, args ...interface{})

	// Trace emit a message and key/value pairs at the TRACE level.
	Trace(msg string, args ...interface{})

	// Debug emit a message and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Info emit a message and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Warn emit a message and key/value pairs at the WARN level.
	Warn(msg string, args ...interface{})

	// Error emit a message and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})
}

// Make sure that intLogger is a Logger.
var _ Logger = &instance{}

// instance is a Logger implementation.
type instance struct {
	log hclog.InterceptLogger
}

// NewLogger creates a new logger instance writing JSON lines to writer.
func NewLogger(writer io.Writer) Logger {
	return &instance{
		log: hclog.NewInterceptLogger(&hclog.LoggerOptions{
			JSONFormat: true,
			Output:     writer,
			TimeFn:     time.Now,
			Level:      INFO.convertedLevel(),
		}),
	}
}

// NewSinkOnlyLogger creates a logger that writes nothing by itself and forwards
// every entry, regardless of its level, to the registered sinks.
func NewSinkOnlyLogger(name string) Logger {
	return &instance{
		log: hclog.NewInterceptLogger(&hclog.LoggerOptions{
			Name:   name,
			Output: io.Discard,
			TimeFn: time.Now,
			Level:  hclog.Off,
		}),
	}
}

func (i instance) WithName(name string) Logger {
	return &instance{
		log: i.log.ResetNamedIntercept(name),
	}
}

func (i instance) SetLevel(level Level) {
	i.log.SetLevel(level.convertedLevel())
}

func (i instance) RegisterSink(sink hclog.SinkAdapter) {
	i.log.RegisterSink(sink)
}

func (i instance) DeregisterSink(sink hclog.SinkAdapter) {
	i.log.DeregisterSink(sink)
}

func (i instance) Log(level hclog.Level, msg string, args ...interface{}) {
	i.log.Log(level, msg, args...)
}

func (i instance) Trace(msg string, args ...interface{}) {
	i.log.Trace(msg, args...)
}

func (i instance) Debug(msg string, args ...interface{}) {
	i.log.Debug(msg, args...)
}

func (i instance) Info(msg string, args ...interface{}) {
	i.log.Info(msg, args...)
}

func (i instance) Warn(msg string, args ...interface{}) {
	i.log.Warn(msg, args...)
}

func (i instance) Error(msg string, args ...interface{}) {
	i.log.Error(msg, args...)
}
