/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CardScan/CardScan/common/interfaces"
)

// Option configures a Pipeline
type Option func(*Pipeline) error

// WithTransport sets the transport used for forwarded requests and, unless
// WithRefresher is given, for the refresh call. Defaults to http.DefaultTransport.
func WithTransport(t http.RoundTripper) Option {
	return func(p *Pipeline) error {
		p.transport = t
		return nil
	}
}

// WithStore sets the credential store (required)
func WithStore(store interfaces.CredentialStore) Option {
	return func(p *Pipeline) error {
		p.store = store
		return nil
	}
}

// WithRefresher sets the component that exchanges a refresh token for a new pair
func WithRefresher(r Refresher) Option {
	return func(p *Pipeline) error {
		p.refresher = r
		return nil
	}
}

// WithRefreshURL refreshes by calling GET <refreshURL>?token=<refresh token>
// over the pipeline's transport
func WithRefreshURL(refreshURL string) Option {
	return func(p *Pipeline) error {
		p.refreshURL = refreshURL
		return nil
	}
}

// WithBaseURL sets the API origin. Only requests to this scheme and host
// carry the access token; requests to any other host, including redirect
// hops, are forwarded untouched. Defaults to the origin of WithRefreshURL.
func WithBaseURL(baseURL string) Option {
	return func(p *Pipeline) error {
		scheme, host, err := origin(baseURL)
		if err != nil {
			return err
		}
		p.scheme, p.host = scheme, host
		return nil
	}
}

// origin returns the lower-cased scheme and host of rawURL
func origin(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid base URL %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("base URL %q must include a scheme and host", rawURL)
	}
	return strings.ToLower(u.Scheme), strings.ToLower(u.Host), nil
}

// WithExemptPaths replaces the list of path substrings that bypass token handling
func WithExemptPaths(paths ...string) Option {
	return func(p *Pipeline) error {
		p.exempt = append([]string(nil), paths...)
		return nil
	}
}

// WithRefreshTimeout bounds a single refresh exchange
func WithRefreshTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		p.refreshTimeout = d
		return nil
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}
