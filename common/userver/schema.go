/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package userver

import (
	"net/http"

	"github.com/CardScan/CardScan/common/interfaces"
)

type HServer struct {
	Headers          Headers
	Routes           Routes
	Listen           string
	HTTPTimeout      int
	HTTPIdleTimeout  int
	HandlerTimeout   int
	MaxConcurrent    int
	PenaltyBoxMin    int
	PenaltyBoxMax    int
	RateLimit        float64 // requests per second per source IP, 0 disables
	RateBurst        int
	MaxBodyBytes     int64
	DownFile         string
	HealthHandler    bool
	StrictSlash      bool
	DefaultHeaders   bool
	TLS              bool
	TLSCertFile      string
	TLSKeyFile       string
	TLSStrongCiphers bool
	Debug            bool
	AuthFunc         AuthFunc // Used for not found and method not allowed handlers
	server           *http.Server
	limiter          *ipLimiter
	Logger           interfaces.Logger
	SEid             uint32 // Starting event ID for logging
}

// AuthFunc is used as a callback to authenticate requests. It receives the
// source IP and the Authorization header. On success the returned value is
// made available to the handler through AuthDetails. A *schema.APIError
// error is sent to the client as is; any other error becomes a generic 401.
type AuthFunc func(src string, authorization string) (any, error)

// Route defines a route for the HTTP router. It can include a
// standard handler that returns a http.Handler or a JHandler
// that returns a JResponse structure.
type Route struct {
	Name     string
	Methods  []string
	Pattern  string
	Handler  http.Handler
	JHandler JHandler
	AuthFunc AuthFunc
}

type Routes []Route

type Header struct {
	Key   string
	Value string
}

type Headers []Header

// HealthResponse is returned by the health handler
type HealthResponse struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// JHandler is the type of the function to be wrapped
type JHandler func(req *http.Request) JResponse

// JResponse is the structure returned by the wrapped function. A nil
// JSONData sends an empty body.
type JResponse struct {
	HTTPCode int
	JSONData any
}
