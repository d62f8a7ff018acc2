// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logsink/internal/config"
	"github.com/mia-platform/logsink/internal/destination"
)

var (
	errNoDestinations   = errors.New("no destination configured")
	errInvalidLevelFlag = errors.New("invalid level flag")
	errEmptyLoggerName  = errors.New("logger name must not be empty")

	// availableLevels holds the levels accepted by the level flag and their description
	// for command completion.
	availableLevels = map[string]string{
		string(config.LevelVerbose): "every entry",
		string(config.LevelDebug):   "debugging entries",
		string(config.LevelInfo):    "informational entries",
		string(config.LevelWarning): "warnings",
		string(config.LevelError):   "errors only",
	}
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errInvalidLevelFlag), errors.Is(err, errEmptyLoggerName):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// unwrappedError returns the unwrapped error if available, otherwise it returns the original error.
func unwrappedError(err error) error {
	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		return unwrapped
	}

	return err
}

func levelCompletion(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var comps []string
	for name, description := range availableLevels {
		if strings.HasPrefix(name, toComplete) {
			comps = append(comps, cobra.CompletionWithDesc(name, description))
		}
	}

	return comps, cobra.ShellCompDirectiveNoFileComp
}

// collectPaths expands every directory in paths to the files it directly contains.
func collectPaths(paths []string) ([]string, error) {
	collected := make([]string, 0)
	for _, p := range paths {
		cleanedPath := filepath.Clean(p)
		err := filepath.Walk(cleanedPath, func(walkedPath string, info fs.FileInfo, err error) error {
			if err != nil {
				return fmt.Errorf("destinations file %q: %w", walkedPath, unwrappedError(err))
			}

			switch {
			case !info.IsDir(): // it's a file add to the collection
				collected = append(collected, walkedPath)
			case info.IsDir() && cleanedPath != walkedPath: // skip directories if is not the root path
				return filepath.SkipDir
			}

			return nil
		})

		if err != nil {
			return nil, err
		}
	}

	return collected, nil
}

// loadDestinationConfigs loads all destination configurations from the provided paths.
func loadDestinationConfigs(paths []string) ([]*config.DestinationConfig, error) {
	configs := make([]*config.DestinationConfig, 0)
	for _, path := range paths {
		fileConfigs, err := config.NewDestinationConfigsFromPath(path)
		if err != nil {
			return nil, err
		}

		configs = append(configs, fileConfigs...)
	}

	return configs, nil
}

// describe returns the line printed by the check command for dest.
func describe(name string, dest destination.Destination) string {
	common := dest.Common()
	return fmt.Sprintf("%s\t%s\t%s\tasync=%t\t%s", dest.Kind(), name, common.MinLevel, common.Asynchronously, target(dest))
}

func target(dest destination.Destination) string {
	switch d := dest.(type) {
	case *destination.File:
		return d.Path()
	case *destination.Platform:
		if d.ServerURL == nil {
			return ""
		}
		return d.ServerURL.String()
	default:
		return "stdout"
	}
}
