// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	checkCmdUsage = "check"
	checkCmdShort = "validate the configured log destinations"
	checkCmdLong  = `Validate the configured log destinations.
	Every destination configuration is resolved with the same rules used when
	logging, and a line with its kind, name, minimum level, delivery mode and
	target is printed for each of them. The command fails at the first invalid
	destination.`

	checkCmdExample = `# Check the destinations file set in LOGSINK_DESTINATIONS_FILE
	logsink check

	# Check every destinations file inside a directory
	logsink check -f ./destinations`

	pipeCmdUsage = "pipe"
	pipeCmdShort = "forward the standard input to the configured log destinations"
	pipeCmdLong  = `Forward the standard input to the configured log destinations.
	Every non empty line read from the standard input is logged at the chosen
	level. When the input ends, pending entries are delivered and every
	destination is closed.`

	pipeCmdExample = `# Send the output of a job to the destinations at warning level
	./job.sh | logsink pipe --level warning --name job`

	serveCmdUsage = "serve"
	serveCmdShort = "start the HTTP service that forwards logs to the configured destinations"
	serveCmdLong  = `Start the HTTP service that forwards logs to the configured destinations.
	Entries posted on /logs, together with the service logs, are delivered to
	every configured destination until the process receives an interrupt.
	The service listens on HTTP_HOST and HTTP_PORT.`

	serveCmdExample = `# Start the service on port 8080
	HTTP_PORT=8080 logsink serve -f destinations.yaml`
)

// CheckCmd returns the Cobra command that validates the destinations.
func CheckCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     checkCmdUsage,
		Short:   heredoc.Doc(checkCmdShort),
		Long:    heredoc.Doc(checkCmdLong),
		Example: heredoc.Doc(checkCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executeCheck(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// PipeCmd returns the Cobra command that logs the standard input.
func PipeCmd() *cobra.Command {
	flags := &pipeFlags{}
	cmd := &cobra.Command{
		Use:     pipeCmdUsage,
		Short:   heredoc.Doc(pipeCmdShort),
		Long:    heredoc.Doc(pipeCmdLong),
		Example: heredoc.Doc(pipeCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executePipe(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ServeCmd returns the Cobra command that runs the HTTP service.
func ServeCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.executeServe(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
