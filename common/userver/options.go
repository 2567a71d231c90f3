//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package userver

import "github.com/CardScan/CardScan/common/interfaces"

// Functional options

func WithLogger(logger interfaces.Logger) func(*HServer) error {
	return func(e *HServer) error {
		e.Logger = logger
		return nil
	}
}

func WithListen(listen string) func(*HServer) error {
	return func(e *HServer) error {
		e.Listen = listen
		return nil
	}
}

func WithHTTPTimeout(t int) func(*HServer) error {
	return func(e *HServer) error {
		e.HTTPTimeout = t
		return nil
	}
}

func WithHTTPIdleTimeout(t int) func(*HServer) error {
	return func(e *HServer) error {
		e.HTTPIdleTimeout = t
		return nil
	}
}

func WithHandlerTimeout(t int) func(*HServer) error {
	return func(e *HServer) error {
		e.HandlerTimeout = t
		return nil
	}
}

// WithPenaltyBox delays failed requests by min to max milliseconds
func WithPenaltyBox(min, max int) func(*HServer) error {
	return func(e *HServer) error {
		e.PenaltyBoxMin = min
		e.PenaltyBoxMax = max
		return nil
	}
}

func WithMaxConcurrent(m int) func(*HServer) error {
	return func(e *HServer) error {
		e.MaxConcurrent = m
		return nil
	}
}

// WithRateLimit allows each source IP perSecond requests with bursts of burst
func WithRateLimit(perSecond float64, burst int) func(*HServer) error {
	return func(e *HServer) error {
		e.RateLimit = perSecond
		e.RateBurst = burst
		return nil
	}
}

// WithMaxBodyBytes limits request bodies. 0 disables the limit.
func WithMaxBodyBytes(n int64) func(*HServer) error {
	return func(e *HServer) error {
		e.MaxBodyBytes = n
		return nil
	}
}

func WithDownFile(down string) func(*HServer) error {
	return func(e *HServer) error {
		e.DownFile = down
		return nil
	}
}

func WithSEid(seid uint32) func(*HServer) error {
	return func(e *HServer) error {
		e.SEid = seid
		return nil
	}
}

func WithHealthHandler(h bool) func(*HServer) error {
	return func(e *HServer) error {
		e.HealthHandler = h
		return nil
	}
}

func WithStrictSlash(s bool) func(*HServer) error {
	return func(e *HServer) error {
		e.StrictSlash = s
		return nil
	}
}

func WithDefaultHeaders(d bool) func(*HServer) error {
	return func(e *HServer) error {
		e.DefaultHeaders = d
		return nil
	}
}

func WithTLS(certFile, keyFile string) func(*HServer) error {
	return func(e *HServer) error {
		e.TLS = true
		e.TLSCertFile = certFile
		e.TLSKeyFile = keyFile
		return nil
	}
}

func WithTLSStrongCiphers(c bool) func(*HServer) error {
	return func(e *HServer) error {
		e.TLSStrongCiphers = c
		return nil
	}
}

func WithDebug(d bool) func(*HServer) error {
	return func(e *HServer) error {
		e.Debug = d
		return nil
	}
}

func WithAuthFunc(authFunc AuthFunc) func(*HServer) error {
	return func(e *HServer) error {
		e.AuthFunc = authFunc
		return nil
	}
}
