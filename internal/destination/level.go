// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

import (
	"strconv"

	"github.com/hashicorp/go-hclog"
)

// Level is the severity of a log entry as understood by a destination.
type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warning
	Error
)

var levelNames = [...]string{
	Verbose: "VERBOSE",
	Debug:   "DEBUG",
	Info:    "INFO",
	Warning: "WARNING",
	Error:   "ERROR",
}

func (l Level) String() string {
	if l < Verbose || l > Error {
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// HCLogLevel converts l to the matching hclog level.
func (l Level) HCLogLevel() hclog.Level {
	switch l {
	case Verbose:
		return hclog.Trace
	case Debug:
		return hclog.Debug
	case Info:
		return hclog.Info
	case Warning:
		return hclog.Warn
	case Error:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// LevelFromHCLog converts an hclog level to a destination Level. Levels without a
// severity map to Verbose and everything above error maps to Error.
func LevelFromHCLog(level hclog.Level) Level {
	switch {
	case level <= hclog.Trace:
		return Verbose
	case level == hclog.Debug:
		return Debug
	case level == hclog.Info:
		return Info
	case level == hclog.Warn:
		return Warning
	default:
		return Error
	}
}
