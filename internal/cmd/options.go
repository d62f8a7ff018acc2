// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mia-platform/logsink/internal/config"
	"github.com/mia-platform/logsink/internal/destination"
	"github.com/mia-platform/logsink/internal/logger"
	"github.com/mia-platform/logsink/internal/resolver"
	"github.com/mia-platform/logsink/internal/server"
	"github.com/mia-platform/logsink/internal/sink"
)

const (
	sinkLoggerName = "logsink:sink"
	maxLineSize    = 1024 * 1024
)

// options holds the settings shared by every command.
type options struct {
	destinationsPaths []string
	env               *config.EnvConfig

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	lock sync.Mutex
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	if len(o.destinationsPaths) == 0 {
		return errNoDestinations
	}

	return nil
}

// destinations loads and resolves every configured destination, returning the
// configurations alongside the resolved values in the same order.
func (o *options) destinations() ([]*config.DestinationConfig, []destination.Destination, error) {
	configs, err := loadDestinationConfigs(o.destinationsPaths)
	if err != nil {
		return nil, nil, err
	}
	if len(configs) == 0 {
		return nil, nil, errNoDestinations
	}

	destinations, err := resolver.New().ResolveAll(configs)
	if err != nil {
		return nil, nil, err
	}

	return configs, destinations, nil
}

// sinkOptions returns the options shared by every sink. Delivery errors are
// reported on a dedicated logger so they never reach the sinks themselves.
func (o *options) sinkOptions() []sink.Option {
	errLog := logger.NewLogger(o.errOut).WithName(sinkLoggerName)
	return []sink.Option{
		sink.WithOutput(o.out),
		sink.WithBufferSize(o.env.AsyncBuffer),
		sink.WithHTTPClient(&http.Client{Timeout: o.env.PlatformTimeout}),
		sink.WithErrorHandler(func(err error) {
			errLog.Error("log delivery failed", "error", err)
		}),
	}
}

// executeCheck prints a line for every resolved destination.
func (o *options) executeCheck(_ context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	configs, destinations, err := o.destinations()
	if err != nil {
		return err
	}

	for idx, dest := range destinations {
		name := configs[idx].Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintln(o.out, describe(name, dest))
	}

	return nil
}

// executeServe registers the destinations on the logger found in ctx and runs the
// HTTP service until an interrupt is received or ctx is done.
func (o *options) executeServe(ctx context.Context) (err error) {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	_, destinations, err := o.destinations()
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	detach, err := sink.Attach(log, destinations, o.sinkOptions()...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, detach())
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

// pipeOptions holds the settings of the pipe command.
type pipeOptions struct {
	*options

	level config.Level
	name  string
}

func (o *pipeOptions) validate() error {
	if o.name == "" {
		return errEmptyLoggerName
	}

	return o.options.validate()
}

// executePipe logs every non empty line of the input and closes the sinks when
// the input ends.
func (o *pipeOptions) executePipe(ctx context.Context) (err error) {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	_, destinations, err := o.destinations()
	if err != nil {
		return err
	}

	log := logger.NewSinkOnlyLogger(o.name)
	detach, err := sink.Attach(log, destinations, o.sinkOptions()...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, detach())
	}()

	level := o.level.Destination().HCLogLevel()
	scanner := bufio.NewScanner(o.in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		log.Log(level, line)
	}

	return scanner.Err()
}
