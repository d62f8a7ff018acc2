// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/logsink/internal/destination"
)

// Level is the minimum level accepted in a destination configuration.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelVerbose Level = "verbose"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ParseLevel returns the Level matching name, ignoring case.
func ParseLevel(name string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(name)))
	switch level {
	case LevelDebug, LevelVerbose, LevelInfo, LevelWarning, LevelError:
		return level, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// Destination converts the configured level into the destination level.
func (l Level) Destination() destination.Level {
	switch l {
	case LevelVerbose:
		return destination.Verbose
	case LevelDebug:
		return destination.Debug
	case LevelWarning:
		return destination.Warning
	case LevelError:
		return destination.Error
	default:
		return destination.Info
	}
}

// UnmarshalYAML rejects unknown level names.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	level, err := ParseLevel(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*l = level
	return nil
}
