// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logsink/internal/destination"
)

func fixedClock() func() time.Time {
	return func() time.Time { return testTime }
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	lock   sync.Mutex
	buffer bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buffer.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buffer.String()
}

func testConsole(async bool) *destination.Console {
	console := destination.NewConsole()
	console.Format = "$L $M"
	console.Asynchronously = async
	console.MinLevel = destination.Info
	console.UseColors = false
	return console
}

func TestConsoleSink(t *testing.T) {
	t.Parallel()

	for name, async := range map[string]bool{"synchronous": false, "asynchronous": true} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buffer := new(syncBuffer)
			s, err := New(testConsole(async), WithOutput(buffer), WithClock(fixedClock()))
			require.NoError(t, err)

			s.Accept("app", hclog.Trace, "silenced verbose line")
			s.Accept("app", hclog.Debug, "silenced debug line")
			s.Accept("app", hclog.Info, "first")
			s.Accept("app", hclog.Warn, "second")
			s.Accept("app", hclog.Error, "third")

			require.NoError(t, s.Close())
			s.Accept("app", hclog.Error, "after close")
			require.NoError(t, s.Close())

			assert.Equal(t, "INFO first\nWARNING second\nERROR third\n", buffer.String())
		})
	}
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	file := destination.NewFile()
	file.LogFileURL = destination.FileURL(path)
	file.Format = "$Dyyyy-MM-dd$d $L $M $X"
	file.Asynchronously = false

	s, err := New(file, WithClock(fixedClock()))
	require.NoError(t, err)

	s.Accept("app", hclog.Info, "written", "key", "value")
	s.Accept("app", hclog.Error, "also written")
	require.NoError(t, s.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01 INFO written key=value\n2024-06-01 ERROR also written \n", string(content))
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	_, err := New(&destination.File{})
	assert.ErrorIs(t, err, ErrMissingLogFile)

	_, err = New(&destination.Platform{})
	assert.ErrorIs(t, err, ErrMissingServerURL)
}

// fakeRegistrar records the sinks registered on it.
type fakeRegistrar struct {
	sinks map[hclog.SinkAdapter]struct{}
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{sinks: make(map[hclog.SinkAdapter]struct{})}
}

func (f *fakeRegistrar) RegisterSink(s hclog.SinkAdapter) {
	f.sinks[s] = struct{}{}
}

func (f *fakeRegistrar) DeregisterSink(s hclog.SinkAdapter) {
	delete(f.sinks, s)
}

func TestAttach(t *testing.T) {
	t.Parallel()

	t.Run("sinks receive the logger entries until detached", func(t *testing.T) {
		t.Parallel()

		logger := hclog.NewInterceptLogger(&hclog.LoggerOptions{
			Name:   "test",
			Output: io.Discard,
			Level:  hclog.Trace,
		})

		console := testConsole(false)
		console.Format = "$N $L $M $X"
		buffer := new(syncBuffer)

		detach, err := Attach(logger, []destination.Destination{console}, WithOutput(buffer))
		require.NoError(t, err)

		logger.Info("hello", "key", "value")
		logger.Debug("silenced by the destination level")
		require.NoError(t, detach())
		logger.Info("not received")

		assert.Equal(t, "test INFO hello key=value\n", buffer.String())
	})

	t.Run("failures leave nothing registered", func(t *testing.T) {
		t.Parallel()

		registrar := newFakeRegistrar()
		detach, err := Attach(registrar, []destination.Destination{
			testConsole(true),
			&destination.File{},
		}, WithOutput(io.Discard))

		assert.Nil(t, detach)
		assert.ErrorIs(t, err, ErrMissingLogFile)
		assert.Empty(t, registrar.sinks)
	})

	t.Run("detach deregisters every sink", func(t *testing.T) {
		t.Parallel()

		registrar := newFakeRegistrar()
		detach, err := Attach(registrar, []destination.Destination{
			testConsole(true),
			testConsole(false),
		}, WithOutput(io.Discard))
		require.NoError(t, err)
		assert.Len(t, registrar.sinks, 2)

		require.NoError(t, detach())
		assert.Empty(t, registrar.sinks)
	})
}
