// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "VERBOSE", Verbose.String())
	assert.Equal(t, "DEBUG", Debug.String())
	assert.Equal(t, "INFO", Info.String())
	assert.Equal(t, "WARNING", Warning.String())
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "Level(42)", Level(42).String())

	testCases := map[string]struct {
		level Level
		hclog hclog.Level
	}{
		"verbose": {level: Verbose, hclog: hclog.Trace},
		"debug":   {level: Debug, hclog: hclog.Debug},
		"info":    {level: Info, hclog: hclog.Info},
		"warning": {level: Warning, hclog: hclog.Warn},
		"error":   {level: Error, hclog: hclog.Error},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.hclog, test.level.HCLogLevel())
			assert.Equal(t, test.level, LevelFromHCLog(test.hclog))
		})
	}

	assert.Equal(t, Verbose, LevelFromHCLog(hclog.NoLevel))
	assert.Equal(t, Error, LevelFromHCLog(hclog.Off))
	assert.Equal(t, hclog.Info, Level(42).HCLogLevel())
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	labels := LevelString{Debug: "D", Error: "E", Info: "I", Verbose: "V", Warning: "W"}
	assert.Equal(t, "V", labels.Label(Verbose))
	assert.Equal(t, "D", labels.Label(Debug))
	assert.Equal(t, "I", labels.Label(Info))
	assert.Equal(t, "W", labels.Label(Warning))
	assert.Equal(t, "E", labels.Label(Error))
	assert.Equal(t, "Level(9)", labels.Label(9))

	defaults := DefaultLevelString()
	assert.Equal(t, "WARNING", defaults.Label(Warning))
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	t.Run("console", func(t *testing.T) {
		t.Parallel()

		console := NewConsole()
		assert.Equal(t, KindConsole, console.Kind())
		assert.Equal(t, DefaultFormat, console.Format)
		assert.True(t, console.Asynchronously)
		assert.Equal(t, Verbose, console.MinLevel)
		assert.Equal(t, DefaultLevelString(), console.LevelString)
		assert.True(t, console.UseColors)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		file := NewFile()
		assert.Equal(t, KindFile, file.Kind())
		require.NotNil(t, file.LogFileURL)
		assert.Equal(t, "file", file.LogFileURL.Scheme)
		assert.True(t, strings.HasSuffix(file.Path(), filepath.Join("logsink", "logsink.log")))
		assert.Equal(t, Rotation{MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 28}, file.Rotation)

		assert.Empty(t, (&File{}).Path())
	})

	t.Run("platform", func(t *testing.T) {
		t.Parallel()

		platform := NewPlatform("app", "secret", "key")
		assert.Equal(t, KindPlatform, platform.Kind())
		assert.Equal(t, "app", platform.AppID)
		assert.Equal(t, "secret", platform.AppSecret)
		assert.Equal(t, "key", platform.EncryptionKey)
		assert.Equal(t, DefaultServerURL, platform.ServerURL.String())
		assert.Equal(t, 10, platform.SendingPoints.Threshold)
		assert.Empty(t, platform.AnalyticsUserName)
	})

	t.Run("destinations do not share state", func(t *testing.T) {
		t.Parallel()

		first := NewPlatform("app", "secret", "key")
		second := NewPlatform("app", "secret", "key")
		first.ServerURL.Host = "example.com"
		first.Common().LevelString.Info = "changed"

		assert.Equal(t, DefaultServerURL, second.ServerURL.String())
		assert.Equal(t, "INFO", second.LevelString.Info)
	})
}

func TestCommonIsMutable(t *testing.T) {
	t.Parallel()

	var dest Destination = NewConsole()
	dest.Common().Format = "$M"
	dest.Common().MinLevel = Error

	console, ok := dest.(*Console)
	require.True(t, ok)
	assert.Equal(t, "$M", console.Format)
	assert.False(t, console.Accepts(Warning))
	assert.True(t, console.Accepts(Error))
}

func TestSendingPoints(t *testing.T) {
	t.Parallel()

	points := DefaultSendingPoints()
	assert.Equal(t, 0, points.For(Verbose))
	assert.Equal(t, 1, points.For(Debug))
	assert.Equal(t, 5, points.For(Info))
	assert.Equal(t, 8, points.For(Warning))
	assert.Equal(t, 10, points.For(Error))
	assert.Equal(t, 0, points.For(Level(-1)))
}
