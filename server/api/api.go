//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

// Package api exposes the account, token, and contact operations over HTTP
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/userver"
	"github.com/CardScan/CardScan/server/data"
	"github.com/CardScan/CardScan/server/global"
)

type API struct {
	logger interfaces.Logger
	conf   *global.ServerConfig
	data   *data.Data

	mu      sync.Mutex
	server  *userver.HServer
	stopped bool
}

func New(config *global.ServerConfig, logger interfaces.Logger) *API {
	return &API{logger: logger, conf: config}
}

// Open sets up data access. Start calls it if needed.
func (a *API) Open() error {
	if a.data != nil {
		return nil
	}
	d, err := data.New(a.conf, a.logger)
	if err != nil {
		return err
	}
	a.data = d
	return nil
}

// Start runs the API until Stop is called. Listener failures are retried.
func (a *API) Start() {
	if err := a.Open(); err != nil {
		a.logger.Errorf(2004, "Data error: %s", err.Error())
		return
	}

	// Loop until stopped
	for {
		a.logger.Infof(2001, "Starting API")
		err := a.startAPI()
		if err == nil || a.isStopped() {
			a.logger.Infof(2002, "API stopped")
			return
		}
		a.logger.Errorf(2003, "API error: %s", err.Error())

		// Sleep before trying again
		time.Sleep(10 * time.Second)
		if a.isStopped() {
			return
		}
	}
}

// Stop shuts the server down, waiting for active requests until ctx ends
func (a *API) Stop(ctx context.Context) error {
	a.mu.Lock()
	a.stopped = true
	s := a.server
	a.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Stop(ctx)
}

func (a *API) isStopped() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopped
}

func (a *API) startAPI() error {
	s, err := a.newServer()
	if err != nil {
		return err
	}

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.server = s
	a.mu.Unlock()

	if err = s.Start(); err != nil {
		return fmt.Errorf("userver Start(): %w", err)
	}
	return nil
}

// newServer creates the userver instance with all routes registered
func (a *API) newServer() (*userver.HServer, error) {

	// Obtain the listen address and check for command line override
	listen := a.conf.SC.Get(global.ConfigListen).String()
	if global.ListenOverride != "" {
		listen = global.ListenOverride
	}

	options := []func(*userver.HServer) error{
		userver.WithLogger(a.logger),
		userver.WithSEid(2500),
		userver.WithListen(listen),
		userver.WithDebug(global.Debug),
		userver.WithHTTPTimeout(a.conf.SC.Get(global.ConfigHTTPTimeout).Int()),
		userver.WithHTTPIdleTimeout(a.conf.SC.Get(global.ConfigHTTPIdleTimeout).Int()),
		userver.WithHandlerTimeout(a.conf.SC.Get(global.ConfigHandlerTimeout).Int()),
		userver.WithMaxConcurrent(a.conf.SC.Get(global.ConfigMaxConcurrent).Int()),
		userver.WithMaxBodyBytes(int64(a.conf.SC.Get(global.ConfigMaxBodyKB).Int()) * 1024),
		userver.WithRateLimit(
			float64(a.conf.SC.Get(global.ConfigRateLimit).Int())/60,
			a.conf.SC.Get(global.ConfigRateBurst).Int()),
		userver.WithPenaltyBox(
			a.conf.SC.Get(global.ConfigPenaltyBoxMin).Int(),
			a.conf.SC.Get(global.ConfigPenaltyBoxMax).Int()),
		userver.WithAuthFunc(a.NewAuthFunc()),
	}

	cert := a.conf.SC.Get(global.ConfigTLSCertFile).String()
	key := a.conf.SC.Get(global.ConfigTLSKeyFile).String()
	if cert != "" && key != "" {
		options = append(options, userver.WithTLS(cert, key))
	}

	s, err := userver.New(options...)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("userver.New() returned nil")
	}

	s.AddRoutes(a.routes())
	return s, nil
}

func (a *API) routes() userver.Routes {
	auth := a.NewAuthFunc()

	return userver.Routes{
		{
			Name:     "login",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointLogin,
			JHandler: a.postLogin,
			AuthFunc: nil},
		{
			Name:     "register",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointRegister,
			JHandler: a.postRegister,
			AuthFunc: nil},
		{
			Name:     "refresh",
			Methods:  []string{http.MethodGet},
			Pattern:  schema.EndpointRefresh,
			JHandler: a.getRefresh,
			AuthFunc: nil},
		{
			Name:     "logout",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointLogout,
			JHandler: a.postLogout,
			AuthFunc: nil},
		{
			Name:     "forgot-password",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointForgotPassword,
			JHandler: a.postForgotPassword,
			AuthFunc: nil},
		{
			Name:     "reset-password",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointResetPassword,
			JHandler: a.postResetPassword,
			AuthFunc: nil},
		{
			Name:     "verify-email",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointVerifyEmail,
			JHandler: a.postVerifyEmail,
			AuthFunc: nil},
		{
			Name:     "send-verification",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointSendVerification,
			JHandler: a.postSendVerification,
			AuthFunc: auth},
		{
			Name:     "ping",
			Methods:  []string{http.MethodGet},
			Pattern:  schema.EndpointPing,
			JHandler: a.getPing,
			AuthFunc: auth},
		{
			Name:     "me",
			Methods:  []string{http.MethodGet},
			Pattern:  schema.EndpointMe,
			JHandler: a.getMe,
			AuthFunc: auth},
		{
			Name:     "me",
			Methods:  []string{http.MethodDelete},
			Pattern:  schema.EndpointMe,
			JHandler: a.deleteMe,
			AuthFunc: auth},
		{
			Name:     "contacts",
			Methods:  []string{http.MethodGet},
			Pattern:  schema.EndpointContacts,
			JHandler: a.getContacts,
			AuthFunc: auth},
		{
			Name:     "contacts",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointContacts,
			JHandler: a.postContact,
			AuthFunc: auth},
		{
			Name:     "contacts",
			Methods:  []string{http.MethodPut},
			Pattern:  schema.EndpointContacts + "/{id}",
			JHandler: a.putContact,
			AuthFunc: auth},
		{
			Name:     "contacts",
			Methods:  []string{http.MethodDelete},
			Pattern:  schema.EndpointContacts + "/{id}",
			JHandler: a.deleteContact,
			AuthFunc: auth},
	}
}

// Close closes the database
func (a *API) Close() {
	a.data.Close()
}

// PruneDB provides a way for the app to trigger database pruning
func (a *API) PruneDB() {
	if a.data != nil {
		a.data.PruneDB()
	}
}
