/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package userver implements a production grade HTTP server using the
// standard Go libraries and gorilla/mux. It provides a simple way to create
// a server with a set of routes and handlers. Each handler can be either
// a traditional http.Handler or a JHandler that returns an object that
// can be marshalled to JSON.
package userver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/net/netutil"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/null"
)

// New returns a HServer struct with default values and options applied
func New(options ...func(*HServer) error) (*HServer, error) {
	s := &HServer{
		Listen:           "127.0.0.1:8080",
		HTTPTimeout:      60,
		HTTPIdleTimeout:  60,
		HandlerTimeout:   60,
		MaxConcurrent:    100,
		RateLimit:        0,
		RateBurst:        20,
		MaxBodyBytes:     1 << 20,
		HealthHandler:    true,
		DefaultHeaders:   true,
		TLSStrongCiphers: true,
		Logger:           null.Logger(),
	}

	// Process options (see options.go)
	for _, op := range options {
		err := op(s)
		if err != nil {
			return nil, err
		}
	}

	if s.RateLimit > 0 {
		s.limiter = newIPLimiter(s.RateLimit, s.RateBurst)
	}
	return s, nil
}

// Handler builds the router for the registered routes
func (s *HServer) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(s.StrictSlash)

	routes := s.Routes
	if s.HealthHandler {
		routes = append(Routes{{
			Name:     "health",
			Methods:  []string{http.MethodGet},
			Pattern:  "/health",
			JHandler: s.HandlerHealth,
		}}, routes...)
	}

	// Use JHandler if set otherwise use Handler
	// Wrap either with Wrapper() for logging
	for _, route := range routes {
		if route.JHandler != nil {
			handler := s.Wrapper(route.Name, s.JWrapper(route.Name, route.JHandler), route.AuthFunc)
			router.Handle(route.Pattern, handler).Methods(route.Methods...)
		} else if route.Handler != nil {
			handler := s.Wrapper(route.Name, route.Handler, route.AuthFunc)
			router.Handle(route.Pattern, handler).Methods(route.Methods...)
		}
	}

	// Add catch all and not found handler
	router.NotFoundHandler = s.Wrapper("Handler404", s.JWrapper("Handler404", s.Handler404), s.AuthFunc)
	router.MethodNotAllowedHandler = s.Wrapper("Handler405", s.JWrapper("Handler405", s.Handler405), s.AuthFunc)
	return router
}

// Start serves until Stop is called or the listener fails
func (s *HServer) Start() error {
	s.Logger.Info(s.SEid+1,
		"Starting server", fields.NewFields(fields.NewField("listen", s.Listen)))

	serv := &http.Server{
		Addr:              s.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Duration(s.HTTPTimeout) * time.Second,
		ReadTimeout:       time.Duration(s.HTTPTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.HTTPTimeout) * time.Second,
		IdleTimeout:       time.Duration(s.HTTPIdleTimeout) * time.Second,
	}

	if s.TLS {
		tlsConfig, err := s.tlsConfig()
		if err != nil {
			return err
		}
		serv.TLSConfig = tlsConfig
	}

	err := s.listen(serv)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// tlsConfig loads the key pair and restricts protocol versions and,
// optionally, cipher suites
func (s *HServer) tlsConfig() (*tls.Config, error) {
	if s.TLSCertFile == "" || s.TLSKeyFile == "" {
		return nil, errors.New("TLS cert or key file not specified")
	}

	cert, err := tls.LoadX509KeyPair(s.TLSCertFile, s.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load TLS key pair: %w", err)
	}

	c := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if s.TLSStrongCiphers {
		// TLS 1.3 suites are not configurable and are always strong
		c.CipherSuites = strongCiphers
	}
	return c, nil
}

var strongCiphers = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}

// Stop waits for active requests to finish until ctx ends
func (s *HServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return errors.New("server is not running")
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// AddRoutes adds routes to the router
func (s *HServer) AddRoutes(routes Routes) {
	for _, route := range routes {
		s.AddRoute(route)
	}
}

// AddRoute adds a route to the router
func (s *HServer) AddRoute(route Route) {
	s.Routes = append(s.Routes, route)
}

// AddHeader adds a header to the list
func (s *HServer) AddHeader(key, value string) {
	s.Headers = append(s.Headers, Header{key, value})
}

// listen is a replacement for ListenAndServe that implements a concurrent session limit
// using netutil.LimitListener. If maxConcurrent is 0, no limit is imposed.
func (s *HServer) listen(server *http.Server) error {

	// Store the server to allow for a graceful shutdown
	s.server = server

	// Get listen address, default to ":http"
	addr := s.server.Addr
	if addr == "" {
		addr = ":http"
	}

	rawListener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	var listener net.Listener
	if s.MaxConcurrent > 0 {
		listener = netutil.LimitListener(rawListener, s.MaxConcurrent)
	} else {
		listener = rawListener
	}

	if s.TLS {
		// This will use the previously configured TLS information
		return s.server.ServeTLS(listener, "", "")
	}
	return s.server.Serve(listener)
}
