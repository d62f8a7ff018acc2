// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"github.com/mia-platform/logsink/internal/destination"
)

// DestinationConfig is the declarative description of a single destination.
// Pointer fields are optional: a nil value keeps the built-in default of the
// destination, a non-nil value replaces it. Fields that do not belong to the
// configured Type are ignored.
type DestinationConfig struct {
	Type destination.Kind `json:"type" yaml:"type"`
	Name string           `json:"name,omitempty" yaml:"name,omitempty"`

	Format      *string      `json:"format,omitempty" yaml:"format,omitempty"`
	Async       *bool        `json:"async,omitempty" yaml:"async,omitempty"`
	MinLevel    *Level       `json:"minLevel,omitempty" yaml:"minLevel,omitempty"`
	LevelString *LevelString `json:"levelString,omitempty" yaml:"levelString,omitempty"`

	// console
	Colors *bool `json:"colors,omitempty" yaml:"colors,omitempty"`

	// file
	Path     string    `json:"path,omitempty" yaml:"path,omitempty"`
	Rotation *Rotation `json:"rotation,omitempty" yaml:"rotation,omitempty"`

	// platform
	App               string  `json:"app,omitempty" yaml:"app,omitempty"`
	Secret            string  `json:"secret,omitempty" yaml:"secret,omitempty"`
	Key               string  `json:"key,omitempty" yaml:"key,omitempty"`
	Threshold         *int    `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	ServerURL         *string `json:"serverURL,omitempty" yaml:"serverURL,omitempty"`
	AnalyticsUserName *string `json:"analyticsUserName,omitempty" yaml:"analyticsUserName,omitempty"`
}

// LevelString overrides the label of single levels. Every label is applied on its own.
type LevelString struct {
	Debug   *string `json:"debug,omitempty" yaml:"debug,omitempty"`
	Error   *string `json:"error,omitempty" yaml:"error,omitempty"`
	Info    *string `json:"info,omitempty" yaml:"info,omitempty"`
	Verbose *string `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Warning *string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// NewLevelString returns a LevelString overriding all five labels.
func NewLevelString(debug, errorLabel, info, verbose, warning string) *LevelString {
	return &LevelString{
		Debug:   &debug,
		Error:   &errorLabel,
		Info:    &info,
		Verbose: &verbose,
		Warning: &warning,
	}
}

// Rotation overrides the rotation policy of a file destination.
type Rotation struct {
	MaxSizeMB  *int  `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	MaxBackups *int  `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
	MaxAgeDays *int  `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
	Compress   *bool `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// Overlay bundles the optional settings shared by every destination kind.
type Overlay struct {
	Format      *string
	Async       *bool
	MinLevel    *Level
	LevelString *LevelString
}

// NewConsoleConfig returns a console configuration with the given overlay.
func NewConsoleConfig(overlay Overlay) *DestinationConfig {
	return withOverlay(&DestinationConfig{Type: destination.KindConsole}, overlay)
}

// NewFileConfig returns a file configuration writing to path with the given overlay.
func NewFileConfig(path string, overlay Overlay) *DestinationConfig {
	return withOverlay(&DestinationConfig{Type: destination.KindFile, Path: path}, overlay)
}

// NewPlatformConfig returns a platform configuration for the given credentials.
// A nil threshold keeps the default sending points threshold.
func NewPlatformConfig(app, secret, key string, threshold *int) *DestinationConfig {
	return &DestinationConfig{
		Type:      destination.KindPlatform,
		App:       app,
		Secret:    secret,
		Key:       key,
		Threshold: threshold,
	}
}

func withOverlay(cfg *DestinationConfig, overlay Overlay) *DestinationConfig {
	cfg.Format = overlay.Format
	cfg.Async = overlay.Async
	cfg.MinLevel = overlay.MinLevel
	cfg.LevelString = overlay.LevelString
	return cfg
}

// Ptr returns a pointer to v, handy for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
