// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

// LevelString holds the label printed for each level.
type LevelString struct {
	Debug   string
	Error   string
	Info    string
	Verbose string
	Warning string
}

// DefaultLevelString returns the labels used when none are configured.
func DefaultLevelString() LevelString {
	return LevelString{
		Debug:   Debug.String(),
		Error:   Error.String(),
		Info:    Info.String(),
		Verbose: Verbose.String(),
		Warning: Warning.String(),
	}
}

// Label returns the label configured for level.
func (ls LevelString) Label(level Level) string {
	switch level {
	case Verbose:
		return ls.Verbose
	case Debug:
		return ls.Debug
	case Info:
		return ls.Info
	case Warning:
		return ls.Warning
	case Error:
		return ls.Error
	default:
		return level.String()
	}
}
