// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logsink/internal/config"
)

const (
	destinationsFileFlagName  = "destinations-file"
	destinationsFileFlagShort = "f"
	destinationsFileFlagUsage = "Path to a file or directory containing destination configurations. Can be specified multiple times. Defaults to LOGSINK_DESTINATIONS_FILE."

	levelFlagName    = "level"
	levelFlagUsage   = "Level used to log every line read from the standard input"
	defaultLevelFlag = string(config.LevelInfo)

	nameFlagName    = "name"
	nameFlagUsage   = "Logger name attached to every line read from the standard input"
	defaultNameFlag = "pipe"
)

// flags collects the CLI options shared by every command.
type flags struct {
	destinationsFiles []string
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(
		&f.destinationsFiles,
		destinationsFileFlagName,
		destinationsFileFlagShort,
		nil,
		destinationsFileFlagUsage)
}

// toOptions builds an options instance from the parsed flags and the environment.
func (f *flags) toOptions(cmd *cobra.Command) (*options, error) {
	env, err := config.LoadEnvConfig()
	if err != nil {
		return nil, err
	}

	paths := f.destinationsFiles
	if len(paths) == 0 {
		paths = []string{env.DestinationsFile}
	}

	destinationsPaths, err := collectPaths(paths)
	if err != nil {
		return nil, err
	}

	return &options{
		destinationsPaths: destinationsPaths,
		env:               env,
		in:                cmd.InOrStdin(),
		out:               cmd.OutOrStdout(),
		errOut:            cmd.ErrOrStderr(),
	}, nil
}

// pipeFlags adds the flags of the pipe command.
type pipeFlags struct {
	flags

	level string
	name  string
}

func (f *pipeFlags) addFlags(cmd *cobra.Command) {
	f.flags.addFlags(cmd)
	cmd.Flags().StringVar(&f.level, levelFlagName, defaultLevelFlag, levelFlagUsage)
	cmd.Flags().StringVar(&f.name, nameFlagName, defaultNameFlag, nameFlagUsage)

	_ = cmd.RegisterFlagCompletionFunc(levelFlagName, levelCompletion)
}

func (f *pipeFlags) toOptions(cmd *cobra.Command) (*pipeOptions, error) {
	level, err := config.ParseLevel(f.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidLevelFlag, err)
	}

	opts, err := f.flags.toOptions(cmd)
	if err != nil {
		return nil, err
	}

	return &pipeOptions{
		options: opts,
		level:   level,
		name:    strings.TrimSpace(f.name),
	}, nil
}
