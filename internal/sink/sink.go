// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mia-platform/logsink/internal/destination"
)

const (
	defaultBufferSize = 256
)

var (
	// ErrUnsupportedDestination reports a destination that has no sink implementation.
	ErrUnsupportedDestination = errors.New("unsupported destination")
	// ErrMissingLogFile reports a file destination without a log file location.
	ErrMissingLogFile = errors.New("missing log file location")
	// ErrMissingServerURL reports a platform destination without a server URL.
	ErrMissingServerURL = errors.New("missing platform server URL")
)

// Sink receives entries from an hclog.InterceptLogger. Close flushes buffered
// entries and releases the underlying resources.
type Sink interface {
	hclog.SinkAdapter
	io.Closer
}

// entryWriter is the output side of a sink, it receives entries already filtered by level.
type entryWriter interface {
	write(entry Entry)
	io.Closer
}

type options struct {
	output     io.Writer
	client     *http.Client
	clock      func() time.Time
	bufferSize int
	onError    func(error)
}

// Option customizes a sink built by New.
type Option func(*options)

// WithOutput sets the stream used by console sinks, os.Stdout by default.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithHTTPClient sets the client used by platform sinks.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithClock sets the function used to timestamp entries.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithBufferSize sets how many entries an asynchronous sink can queue.
func WithBufferSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.bufferSize = size
		}
	}
}

// WithErrorHandler sets the function called when a sink fails to deliver entries.
func WithErrorHandler(handler func(error)) Option {
	return func(o *options) {
		o.onError = handler
	}
}

// New builds the sink matching dest. Asynchronous destinations get a queue drained
// by a dedicated goroutine, the others write inline.
func New(dest destination.Destination, opts ...Option) (Sink, error) {
	o := &options{
		output:     os.Stdout,
		client:     http.DefaultClient,
		clock:      time.Now,
		bufferSize: defaultBufferSize,
		onError:    func(error) {},
	}
	for _, opt := range opts {
		opt(o)
	}

	writer, err := newEntryWriter(dest, o)
	if err != nil {
		return nil, err
	}

	base := dest.Common()
	s := &sink{
		minLevel: base.MinLevel,
		clock:    o.clock,
		writer:   writer,
	}
	if base.Asynchronously {
		s.queue = make(chan Entry, o.bufferSize)
		s.done = make(chan struct{})
		go s.drain()
	}

	return s, nil
}

func newEntryWriter(dest destination.Destination, o *options) (entryWriter, error) {
	switch d := dest.(type) {
	case *destination.Console:
		return newStreamWriter(NewFormatter(&d.Base, d.UseColors), o.output, nil, o.onError), nil
	case *destination.File:
		return newFileWriter(d, o.onError)
	case *destination.Platform:
		if d.ServerURL == nil {
			return nil, ErrMissingServerURL
		}
		return newPlatformWriter(d, o.client, o.onError), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedDestination, dest)
	}
}

var _ Sink = &sink{}

type sink struct {
	minLevel destination.Level
	clock    func() time.Time
	writer   entryWriter

	// queue and done are nil for synchronous sinks
	queue chan Entry
	done  chan struct{}

	lock   sync.RWMutex
	closed bool
}

// Accept implements hclog.SinkAdapter.
func (s *sink) Accept(name string, level hclog.Level, msg string, args ...interface{}) {
	entryLevel := destination.LevelFromHCLog(level)
	if entryLevel < s.minLevel {
		return
	}

	entry := Entry{
		Time:    s.clock(),
		Name:    name,
		Level:   entryLevel,
		Message: msg,
		Args:    slices.Clone(args),
	}

	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return
	}

	if s.queue == nil {
		s.writer.write(entry)
		return
	}
	s.queue <- entry
}

func (s *sink) drain() {
	defer close(s.done)
	for entry := range s.queue {
		s.writer.write(entry)
	}
}

// Close implements io.Closer.
func (s *sink) Close() error {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return nil
	}
	s.closed = true
	if s.queue != nil {
		close(s.queue)
	}
	s.lock.Unlock()

	if s.done != nil {
		<-s.done
	}
	return s.writer.Close()
}

// Registrar is implemented by loggers that accept sinks, like hclog.InterceptLogger.
type Registrar interface {
	RegisterSink(sink hclog.SinkAdapter)
	DeregisterSink(sink hclog.SinkAdapter)
}

// Attach builds a sink for every destination and registers it on registrar. The
// returned function deregisters and closes all of them. If a sink cannot be built
// the ones already created are closed and nothing stays registered.
func Attach(registrar Registrar, destinations []destination.Destination, opts ...Option) (func() error, error) {
	sinks := make([]Sink, 0, len(destinations))
	detach := func() error {
		errs := make([]error, 0)
		for _, s := range sinks {
			registrar.DeregisterSink(s)
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, dest := range destinations {
		s, err := New(dest, opts...)
		if err != nil {
			return nil, errors.Join(err, detach())
		}
		registrar.RegisterSink(s)
		sinks = append(sinks, s)
	}

	return detach, nil
}
