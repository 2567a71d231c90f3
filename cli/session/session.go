/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package session wires the CLI configuration, logger, credential store,
// and token pipeline together for a single command invocation.
package session

import (
	"context"
	"fmt"
	"os"

	"github.com/CardScan/CardScan/cli/communications"
	"github.com/CardScan/CardScan/cli/credentials"
	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/null"
	"github.com/CardScan/CardScan/common/pipeline"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/uconfig"
	"github.com/CardScan/CardScan/common/ulogger"
)

type Session struct {
	Config    *global.CLIConfig
	Logger    interfaces.Logger
	Store     *credentials.Store
	Pipeline  *pipeline.Pipeline
	Comms     global.Comms
	ServerURL string
	closers   []func()
}

// Open loads the configuration from global.ConfigDir and returns a ready
// Session. Close must be called to release the credential store.
func Open() (*Session, error) {
	conf, err := global.Config(global.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}
	return New(conf)
}

// New returns a Session for an already loaded configuration
func New(conf *global.CLIConfig) (*Session, error) {
	s := &Session{Config: conf, ServerURL: conf.ServerURL()}

	if err := s.openLogger(); err != nil {
		return nil, err
	}

	dataDir := conf.DataDir()
	if !uconfig.CreateDir(dataDir) {
		s.Close()
		return nil, fmt.Errorf("unable to create %s", dataDir)
	}

	store, err := credentials.Open(dataDir, credentials.WithLogger(s.Logger))
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Store = store
	s.closers = append(s.closers, func() { _ = store.Close() })

	s.Pipeline, err = pipeline.New(
		pipeline.WithStore(store),
		pipeline.WithBaseURL(s.ServerURL),
		pipeline.WithRefreshURL(s.ServerURL+schema.EndpointRefresh),
		pipeline.WithRefreshTimeout(conf.Timeout()),
		pipeline.WithLogger(s.Logger))
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Comms = communications.New(s.Pipeline.Client(conf.Timeout()), s.ServerURL)

	s.Logger.Debug(1001, "session opened", fields.NewFields(
		fields.NewField("server", s.ServerURL),
		fields.NewField("data_dir", dataDir)))
	return s, nil
}

// openLogger logs to the configured file, to stderr with --debug, or nowhere
func (s *Session) openLogger() error {
	debug := global.Debug || s.Config.Settings.Get(global.ConfigDebug).Bool()
	logFile := s.Config.Settings.Get(global.ConfigLogFile).String()

	if logFile == "" && !debug {
		s.Logger = null.Logger()
		return nil
	}

	options := []ulogger.Option{
		ulogger.WithPrefix(global.LogName),
		ulogger.WithDebug(debug),
		ulogger.WithLogFile(logFile),
		ulogger.WithLogStdout(debug),
		ulogger.WithWriter(os.Stderr),
	}

	logger, err := ulogger.New(options...)
	if err != nil {
		return fmt.Errorf("unable to open log: %w", err)
	}
	s.Logger = logger
	s.closers = append(s.closers, logger.Close)
	return nil
}

// Close releases everything opened by the session, in reverse order
func (s *Session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run opens a session, calls fn, and closes the session
func Run(ctx context.Context, fn func(context.Context, *Session) error) error {
	s, err := Open()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
