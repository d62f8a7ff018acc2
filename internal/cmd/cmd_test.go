// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logsink/internal/config"
	"github.com/mia-platform/logsink/internal/resolver"
	"github.com/mia-platform/logsink/internal/server"
)

// writeDestinations writes content into a destinations file inside dir.
func writeDestinations(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func executeCmd(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()

	errBuffer := new(bytes.Buffer)
	outBuffer := new(bytes.Buffer)
	cmd.SetOut(outBuffer)
	cmd.SetErr(errBuffer)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetUsageTemplate("usage string")
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return outBuffer.String(), errBuffer.String(), err
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "app.log")
	valid := writeDestinations(t, dir, "valid.yaml", fmt.Sprintf(`type: console
name: terminal
async: false
minLevel: warning
---
type: file
path: %s
---
type: platform
name: remote
app: APP_ID
secret: SECRET_ID
key: ENCRYPTION_KEY
serverURL: https://example.com/entries/
`, logFile))
	invalid := writeDestinations(t, dir, "invalid.yaml", `type: platform
name: remote
app: APP_ID
secret: SECRET_ID
key: ENCRYPTION_KEY
threshold: 2000
`)
	missing := filepath.Join(dir, "missing.yaml")

	testCases := map[string]struct {
		args                 []string
		expectedOut          string
		expectedError        error
		expectedErrorMessage string
	}{
		"prints every destination": {
			args: []string{"-f", valid},
			expectedOut: strings.Join([]string{
				"console\tterminal\tWARNING\tasync=false\tstdout",
				"file\t-\tVERBOSE\tasync=true\t" + logFile,
				"platform\tremote\tVERBOSE\tasync=true\thttps://example.com/entries/",
				"",
			}, "\n"),
		},
		"invalid destination": {
			args:                 []string{"-f", invalid},
			expectedError:        resolver.ErrInvalidConfiguration,
			expectedErrorMessage: "destination 0 (remote): invalid configuration: invalid threshold 2000, must be between 0 and 1000\n",
		},
		"missing file": {
			args:                 []string{"-f", missing},
			expectedError:        syscall.ENOENT,
			expectedErrorMessage: fmt.Sprintf("destinations file %q: %s\n", missing, syscall.ENOENT),
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			out, errOut, err := executeCmd(t, CheckCmd(), "", test.args...)
			if test.expectedError != nil {
				require.ErrorIs(t, err, test.expectedError)
				assert.Equal(t, test.expectedErrorMessage, errOut)
				assert.Empty(t, out)
				return
			}

			require.NoError(t, err)
			assert.Empty(t, errOut)
			assert.Equal(t, test.expectedOut, out)
		})
	}
}

func TestPipeCmd(t *testing.T) {
	t.Parallel()

	t.Run("logs every line on each destination", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		logFile := filepath.Join(dir, "pipe.log")
		path := writeDestinations(t, dir, "destinations.yaml", fmt.Sprintf(`type: console
format: "$L $M"
async: false
minLevel: info
---
type: file
path: %s
format: "$N|$L|$M"
`, logFile))

		out, errOut, err := executeCmd(t, PipeCmd(), "first line\n\nsecond line\n", "-f", path, "--level", "WARNING", "--name", "job")
		require.NoError(t, err)
		assert.Empty(t, errOut)
		assert.Equal(t, "WARNING first line\nWARNING second line\n", out)

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Equal(t, "job|WARNING|first line\njob|WARNING|second line\n", string(content))
	})

	t.Run("entries below the minimum level are dropped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDestinations(t, dir, "destinations.yaml", `type: console
format: "$M"
async: false
minLevel: error
`)

		out, _, err := executeCmd(t, PipeCmd(), "ignored\n", "-f", path, "--level", "debug")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("invalid level prints usage", func(t *testing.T) {
		t.Parallel()

		out, errOut, err := executeCmd(t, PipeCmd(), "", "--level", "loud")
		require.ErrorIs(t, err, errInvalidLevelFlag)
		require.ErrorIs(t, err, config.ErrUnknownLevel)
		assert.Equal(t, errInvalidLevelFlag.Error()+": "+config.ErrUnknownLevel.Error()+": \"loud\"\n", errOut)
		assert.Equal(t, "usage string", out)
	})

	t.Run("empty name prints usage", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDestinations(t, dir, "destinations.yaml", "type: console\n")

		out, errOut, err := executeCmd(t, PipeCmd(), "", "-f", path, "--name", " ")
		require.ErrorIs(t, err, errEmptyLoggerName)
		assert.Equal(t, errEmptyLoggerName.Error()+"\n", errOut)
		assert.Equal(t, "usage string", out)
	})

	t.Run("empty destinations file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDestinations(t, dir, "destinations.yaml", "---\n")

		_, errOut, err := executeCmd(t, PipeCmd(), "line\n", "-f", path)
		require.ErrorIs(t, err, errNoDestinations)
		assert.Equal(t, errNoDestinations.Error()+"\n", errOut)
	})
}

func TestServeCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeDestinations(t, dir, "destinations.yaml", "type: console\nasync: false\n")

	t.Setenv("HTTP_PORT", "0")
	_, errOut, err := executeCmd(t, ServeCmd(), "", "-f", path)
	require.ErrorIs(t, err, server.ErrEnvVariablesNotValid)
	assert.Contains(t, errOut, "HTTP_PORT is out of valid range (1-65535)")
}

func TestDefaultDestinationsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDestinations(t, dir, "from-env.yaml", "type: console\nname: env\n")
	t.Setenv("LOGSINK_DESTINATIONS_FILE", path)

	out, errOut, err := executeCmd(t, CheckCmd(), "")
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Equal(t, "console\tenv\tVERBOSE\tasync=true\tstdout\n", out)

	t.Setenv("LOGSINK_ASYNC_BUFFER", "0")
	_, errOut, err = executeCmd(t, CheckCmd(), "")
	require.ErrorIs(t, err, config.ErrEnvVariablesNotValid)
	assert.Contains(t, errOut, "LOGSINK_ASYNC_BUFFER must be greater than zero")
}
