// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath is matched by every *InvalidPathError.
	ErrInvalidPath = errors.New("invalid file path")
	// ErrInvalidConfiguration is matched by every *InvalidConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedDestination reports a destination type the resolver cannot build.
	ErrUnsupportedDestination = errors.New("unsupported destination type")
)

// InvalidPathError reports a file destination path that cannot be turned into a file location.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidPath, e.Path, e.Reason)
}

func (e *InvalidPathError) Unwrap() error {
	return ErrInvalidPath
}

// Field names a platform setting that failed validation.
type Field string

const (
	FieldApp       Field = "app"
	FieldSecret    Field = "secret"
	FieldKey       Field = "key"
	FieldThreshold Field = "threshold"
	FieldServerURL Field = "serverURL"
)

// Violation describes a single invalid field.
type Violation struct {
	Field   Field
	Message string
}

// InvalidConfigurationError reports invalid platform settings. Field is the first
// offending field, Violations lists all of them.
type InvalidConfigurationError struct {
	Field      Field
	Violations []Violation
}

func (e *InvalidConfigurationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		messages = append(messages, violation.Message)
	}

	if len(messages) == 0 {
		return fmt.Sprintf("%s: invalid %s", ErrInvalidConfiguration, e.Field)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, strings.Join(messages, "; "))
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Is matches another *InvalidConfigurationError reporting the same field. A target
// without a field matches any field.
func (e *InvalidConfigurationError) Is(target error) bool {
	ice, ok := target.(*InvalidConfigurationError)
	if !ok {
		return false
	}

	return ice.Field == "" || ice.Field == e.Field
}
