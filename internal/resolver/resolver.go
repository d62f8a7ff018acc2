// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package resolver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mia-platform/logsink/internal/config"
	"github.com/mia-platform/logsink/internal/destination"
)

// Resolver builds destinations from their configuration.
type Resolver struct {
	validate *validator.Validate
}

// New returns a ready to use Resolver.
func New() *Resolver {
	return &Resolver{
		validate: newValidator(),
	}
}

// Resolve builds the destination described by cfg, dispatching on its type.
func (r *Resolver) Resolve(cfg *config.DestinationConfig) (destination.Destination, error) {
	switch cfg.Type {
	case destination.KindConsole:
		return r.ResolveConsoleDestination(cfg)
	case destination.KindFile:
		return r.ResolveFileDestination(cfg)
	case destination.KindPlatform:
		return r.ResolvePlatformDestination(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDestination, cfg.Type)
	}
}

// ResolveAll resolves every configuration in order and stops at the first failure.
func (r *Resolver) ResolveAll(cfgs []*config.DestinationConfig) ([]destination.Destination, error) {
	destinations := make([]destination.Destination, 0, len(cfgs))
	for idx, cfg := range cfgs {
		dest, err := r.Resolve(cfg)
		if err != nil {
			return nil, fmt.Errorf("destination %d (%s): %w", idx, displayName(cfg), err)
		}
		destinations = append(destinations, dest)
	}

	return destinations, nil
}

// ResolveConsoleDestination builds a console destination. It never fails.
func (r *Resolver) ResolveConsoleDestination(cfg *config.DestinationConfig) (*destination.Console, error) {
	console := destination.NewConsole()
	applyOverlay(&console.Base, cfg)
	if cfg.Colors != nil {
		console.UseColors = *cfg.Colors
	}

	return console, nil
}

// ResolveFileDestination builds a file destination writing to the configured path.
// Relative paths are resolved against the working directory. It fails with an
// *InvalidPathError when the path does not name a file.
func (r *Resolver) ResolveFileDestination(cfg *config.DestinationConfig) (*destination.File, error) {
	logFileURL, err := fileURLFromPath(cfg.Path)
	if err != nil {
		return nil, err
	}

	file := destination.NewFile()
	applyOverlay(&file.Base, cfg)
	file.LogFileURL = logFileURL
	applyRotation(&file.Rotation, cfg.Rotation)

	return file, nil
}

// ResolvePlatformDestination builds a platform destination. All the required
// credentials and the optional threshold are validated before building it; any
// violation fails with an *InvalidConfigurationError.
func (r *Resolver) ResolvePlatformDestination(cfg *config.DestinationConfig) (*destination.Platform, error) {
	if err := r.validatePlatform(cfg); err != nil {
		return nil, err
	}

	platform := destination.NewPlatform(cfg.App, cfg.Secret, cfg.Key)
	applyOverlay(&platform.Base, cfg)

	if cfg.Threshold != nil {
		platform.SendingPoints.Threshold = *cfg.Threshold
	}
	if cfg.ServerURL != nil {
		serverURL, err := url.Parse(*cfg.ServerURL)
		if err != nil {
			return nil, &InvalidConfigurationError{
				Field:      FieldServerURL,
				Violations: []Violation{{Field: FieldServerURL, Message: violationMessage(FieldServerURL, cfg)}},
			}
		}
		platform.ServerURL = serverURL
	}
	if cfg.AnalyticsUserName != nil {
		platform.AnalyticsUserName = *cfg.AnalyticsUserName
	}

	return platform, nil
}

// applyOverlay copies the optional settings present in cfg over the defaults in base.
func applyOverlay(base *destination.Base, cfg *config.DestinationConfig) {
	if cfg.Format != nil {
		base.Format = *cfg.Format
	}
	if cfg.Async != nil {
		base.Asynchronously = *cfg.Async
	}
	if cfg.MinLevel != nil {
		base.MinLevel = cfg.MinLevel.Destination()
	}

	labels := cfg.LevelString
	if labels == nil {
		return
	}
	setIfPresent(&base.LevelString.Debug, labels.Debug)
	setIfPresent(&base.LevelString.Error, labels.Error)
	setIfPresent(&base.LevelString.Info, labels.Info)
	setIfPresent(&base.LevelString.Verbose, labels.Verbose)
	setIfPresent(&base.LevelString.Warning, labels.Warning)
}

func applyRotation(rotation *destination.Rotation, overlay *config.Rotation) {
	if overlay == nil {
		return
	}
	setIfPresent(&rotation.MaxSizeMB, overlay.MaxSizeMB)
	setIfPresent(&rotation.MaxBackups, overlay.MaxBackups)
	setIfPresent(&rotation.MaxAgeDays, overlay.MaxAgeDays)
	setIfPresent(&rotation.Compress, overlay.Compress)
}

func setIfPresent[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

// fileURLFromPath computes the location of a log file without accessing the file system.
func fileURLFromPath(path string) (*url.URL, error) {
	invalid := func(reason string) error {
		return &InvalidPathError{Path: path, Reason: reason}
	}

	switch {
	case strings.TrimSpace(path) == "":
		return nil, invalid("path is empty")
	case strings.ContainsRune(path, 0):
		return nil, invalid("path contains a NUL byte")
	case strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)):
		return nil, invalid("path names a directory")
	}

	if base := filepath.Base(path); base == "." || base == ".." {
		return nil, invalid("path names a directory")
	}

	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, invalid(err.Error())
	}

	return destination.FileURL(absolutePath), nil
}

func displayName(cfg *config.DestinationConfig) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return string(cfg.Type)
}
