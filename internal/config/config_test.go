// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logsink/internal/destination"
)

func TestNewDestinationConfigsFromPath(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testCases := map[string]struct {
		path            string
		expectedConfigs []*DestinationConfig
		expectedError   error
	}{
		"valid yaml file with multiple destinations": {
			path: filepath.Join("testdata", "all.yaml"),
			expectedConfigs: []*DestinationConfig{
				{
					Type:        destination.KindConsole,
					Name:        "terminal",
					Format:      Ptr("$L $M"),
					Async:       Ptr(false),
					MinLevel:    Ptr(LevelWarning),
					Colors:      Ptr(false),
					LevelString: NewLevelString("D", "E", "I", "V", "W"),
				},
				{
					Type:     destination.KindFile,
					Path:     "logs/app.log",
					MinLevel: Ptr(LevelDebug),
					Rotation: &Rotation{
						MaxSizeMB: Ptr(10),
						Compress:  Ptr(true),
					},
				},
				{
					Type:              destination.KindPlatform,
					App:               "APP_ID",
					Secret:            "SECRET_ID",
					Key:               "ENCRYPTION_KEY",
					Threshold:         Ptr(500),
					MinLevel:          Ptr(LevelInfo),
					ServerURL:         Ptr("https://google.com"),
					AnalyticsUserName: Ptr("custom-user"),
				},
			},
		},
		"valid json file with one destination": {
			path: filepath.Join("testdata", "one.json"),
			expectedConfigs: []*DestinationConfig{
				{
					Type:   destination.KindFile,
					Path:   "file-warnings.log",
					Format: Ptr("$MJ"),
					Async:  Ptr(false),
				},
			},
		},
		"missing type": {
			path:          filepath.Join("testdata", "missing-type.yaml"),
			expectedError: ErrParsing,
		},
		"unknown field": {
			path:          filepath.Join("testdata", "unknown-field.yaml"),
			expectedError: ErrParsing,
		},
		"invalid level": {
			path:          filepath.Join("testdata", "invalid-level.yaml"),
			expectedError: ErrUnknownLevel,
		},
		"missing file return error": {
			path:          filepath.Join(tempDir, "missing"),
			expectedError: syscall.ENOENT,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			configs, err := NewDestinationConfigsFromPath(test.path)
			if test.expectedError != nil {
				assert.Empty(t, configs)
				assert.ErrorIs(t, err, test.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedConfigs, configs)
		})
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		input    string
		expected Level
		level    destination.Level
	}{
		"debug":   {input: "debug", expected: LevelDebug, level: destination.Debug},
		"verbose": {input: "VERBOSE", expected: LevelVerbose, level: destination.Verbose},
		"info":    {input: " Info ", expected: LevelInfo, level: destination.Info},
		"warning": {input: "warning", expected: LevelWarning, level: destination.Warning},
		"error":   {input: "error", expected: LevelError, level: destination.Error},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, level)
			assert.Equal(t, test.level, level.Destination())
		})
	}

	_, err := ParseLevel("warn")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	overlay := Overlay{Format: Ptr("$M"), Async: Ptr(true)}

	console := NewConsoleConfig(overlay)
	assert.Equal(t, destination.KindConsole, console.Type)
	assert.Equal(t, "$M", *console.Format)
	assert.Nil(t, console.MinLevel)

	file := NewFileConfig("out.log", overlay)
	assert.Equal(t, destination.KindFile, file.Type)
	assert.Equal(t, "out.log", file.Path)
	assert.True(t, *file.Async)

	platform := NewPlatformConfig("app", "secret", "key", nil)
	assert.Equal(t, destination.KindPlatform, platform.Type)
	assert.Nil(t, platform.Threshold)
}

func TestLoadEnvConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		envVars, err := LoadEnvConfig()
		require.NoError(t, err)
		assert.Equal(t, "destinations.yaml", envVars.DestinationsFile)
		assert.Equal(t, 10*time.Second, envVars.PlatformTimeout)
		assert.Equal(t, 256, envVars.AsyncBuffer)
	})

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("LOGSINK_DESTINATIONS_FILE", "/etc/logsink/destinations.yaml")
		t.Setenv("LOGSINK_PLATFORM_TIMEOUT", "1m")
		t.Setenv("LOGSINK_ASYNC_BUFFER", "8")
		envVars, err := LoadEnvConfig()
		require.NoError(t, err)
		assert.Equal(t, "/etc/logsink/destinations.yaml", envVars.DestinationsFile)
		assert.Equal(t, time.Minute, envVars.PlatformTimeout)
		assert.Equal(t, 8, envVars.AsyncBuffer)
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Setenv("LOGSINK_PLATFORM_TIMEOUT", "soon")
		_, err := LoadEnvConfig()
		assert.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})
}

func TestValidateEnvironmentVariables(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		envVars     EnvConfig
		expectError bool
	}{
		"valid": {
			envVars: EnvConfig{DestinationsFile: "d.yaml", PlatformTimeout: time.Second, AsyncBuffer: 1},
		},
		"empty file": {
			envVars:     EnvConfig{PlatformTimeout: time.Second, AsyncBuffer: 1},
			expectError: true,
		},
		"zero timeout": {
			envVars:     EnvConfig{DestinationsFile: "d.yaml", AsyncBuffer: 1},
			expectError: true,
		},
		"zero buffer": {
			envVars:     EnvConfig{DestinationsFile: "d.yaml", PlatformTimeout: time.Second},
			expectError: true,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validateEnvironmentVariables(&test.envVars)
			if test.expectError {
				assert.ErrorIs(t, err, ErrEnvVariablesNotValid)
				return
			}
			assert.NoError(t, err)
		})
	}
}
