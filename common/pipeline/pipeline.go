/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package pipeline attaches bearer credentials to outbound API requests and
// recovers from an expired access token by refreshing the credential pair
// and retrying the request once.
//
// A request whose path contains an exempt substring (login, register) is
// forwarded untouched, as is any request addressed to a host other than the
// API origin. Any other request carries the stored access token.
// When it is answered with 401 the stored refresh token is exchanged for a
// new pair, the pair is saved, and the request is sent again. The response
// to that second attempt is returned whatever its status. If the exchange
// fails, the stored credentials are erased and the original 401 is returned.
package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/null"
	"github.com/CardScan/CardScan/common/schema"
)

var _ http.RoundTripper = (*Pipeline)(nil)

var (
	ErrNoStore     = errors.New("pipeline requires a credential store")
	ErrNoRefresher = errors.New("pipeline requires a refresher or refresh URL")
	ErrNoBaseURL   = errors.New("pipeline requires a base URL or refresh URL")
	ErrStoreWrite  = errors.New("unable to save refreshed credentials")
)

// DefaultRefreshTimeout bounds a single refresh exchange
const DefaultRefreshTimeout = 30 * time.Second

// Pipeline holds no per-request state; all of it lives in the credential
// store, so one Pipeline serves any number of concurrent requests.
type Pipeline struct {
	transport      http.RoundTripper
	store          interfaces.CredentialStore
	refresher      Refresher
	refreshURL     string
	scheme         string
	host           string
	exempt         []string
	refreshTimeout time.Duration
	logger         interfaces.Logger

	// refreshes coalesces concurrent exchanges of the same refresh token
	refreshes singleflight.Group
}

// New returns a Pipeline with options applied
func New(options ...Option) (*Pipeline, error) {
	p := &Pipeline{
		transport:      http.DefaultTransport,
		exempt:         schema.ExemptPaths,
		refreshTimeout: DefaultRefreshTimeout,
		logger:         null.Logger(),
	}

	for _, op := range options {
		if err := op(p); err != nil {
			return nil, err
		}
	}

	if p.store == nil {
		return nil, ErrNoStore
	}
	if p.refresher == nil {
		if p.refreshURL == "" {
			return nil, ErrNoRefresher
		}
		p.refresher = NewHTTPRefresher(p.refreshURL, p.transport)
	}
	if p.host == "" {
		if p.refreshURL == "" {
			return nil, ErrNoBaseURL
		}
		scheme, host, err := origin(p.refreshURL)
		if err != nil {
			return nil, err
		}
		p.scheme, p.host = scheme, host
	}
	return p, nil
}

// Client returns an http.Client that sends every request through the pipeline
func (p *Pipeline) Client(timeout time.Duration) *http.Client {
	return &http.Client{Transport: p, Timeout: timeout}
}

// RoundTrip implements http.RoundTripper using the request's context
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	return p.Execute(req.Context(), req)
}

// Execute sends req and returns the final response. It blocks for the
// duration of up to two network round trips, one refresh exchange, and
// the credential store I/O in between.
//
// Errors are returned only when the first attempt fails in transport, when
// the retry fails in transport, or when ctx ends while a refresh is in
// progress. A failed refresh is reported as the original 401 response.
func (p *Pipeline) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	path := req.URL.EscapedPath()

	if !p.isOrigin(req.URL) {
		p.logger.Debug(eidForeign, "request to foreign host", fields.NewFields(
			fields.NewField("method", req.Method),
			fields.NewField("host", req.URL.Host)))
		return p.transport.RoundTrip(req.WithContext(ctx))
	}

	if p.isExempt(path) {
		p.logger.Debug(eidExempt, "exempt request", fields.NewFields(
			fields.NewField("method", req.Method),
			fields.NewField("path", path)))
		return p.transport.RoundTrip(req.WithContext(ctx))
	}

	body, err := replayable(req)
	if err != nil {
		return nil, err
	}

	// An unreadable access token is sent as no token; the server's 401
	// then leads to the refresh path, which handles store failures.
	access, err := p.store.Get(ctx, interfaces.KeyAccessToken)
	if err != nil {
		p.logger.Warning(eidStoreRead, "unable to read access token", fields.NewFields(
			fields.NewField("error", err.Error())))
		access = ""
	}

	first, err := outbound(ctx, req, body, access)
	if err != nil {
		return nil, err
	}

	resp, err := p.transport.RoundTrip(first)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		p.logger.Debug(eidPassthrough, "response", fields.NewFields(
			fields.NewField("method", req.Method),
			fields.NewField("path", path),
			fields.NewField("status", resp.StatusCode)))
		return resp, nil
	}

	return p.unauthorized(ctx, req, body, resp)
}

// unauthorized handles a 401 on a protected request
func (p *Pipeline) unauthorized(ctx context.Context, req *http.Request, body bodyFunc, resp *http.Response) (*http.Response, error) {
	path := req.URL.EscapedPath()
	logFields := fields.NewFields(
		fields.NewField("method", req.Method),
		fields.NewField("path", path))

	refreshToken, err := p.store.Get(ctx, interfaces.KeyRefreshToken)
	if err != nil {
		logFields.AppendKV("error", err.Error())
		p.logger.Warning(eidStoreRead, "unable to read refresh token", logFields)
		return p.giveUp(ctx, resp, logFields), nil
	}

	if refreshToken == "" {
		p.logger.Info(eidNoRefreshToken, "unauthorized with no refresh token", logFields)
		return resp, nil
	}

	resp = p.holdResponse(resp, logFields)

	pair, err := p.refresh(ctx, refreshToken)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			p.logger.Info(eidCancelled, "request cancelled during refresh", logFields)
			discard(resp)
			return nil, ctxErr
		}
		logFields.AppendKV("error", err.Error())
		p.logger.Warning(eidRefreshFailed, "token refresh failed", logFields)
		return p.giveUp(ctx, resp, logFields), nil
	}

	p.logger.Info(eidRefreshed, "token refreshed", logFields)

	retry, err := outbound(ctx, req, body, pair.AccessToken)
	if err != nil {
		discard(resp)
		return nil, err
	}

	retried, err := p.transport.RoundTrip(retry)
	if err != nil {
		discard(resp)
		return nil, err
	}
	discard(resp)

	logFields.AppendKV("status", retried.StatusCode)
	p.logger.Debug(eidRetried, "request retried", logFields)
	return retried, nil
}

// refresh exchanges refreshToken and saves the new pair. Concurrent callers
// presenting the same refresh token share one exchange. The shared exchange
// is detached from any single caller's cancellation; each caller stops
// waiting when its own ctx ends.
func (p *Pipeline) refresh(ctx context.Context, refreshToken string) (schema.AuthResponse, error) {
	ch := p.refreshes.DoChan(refreshToken, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.refreshTimeout)
		defer cancel()

		pair, err := p.refresher.Refresh(rctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if pair.AccessToken == "" {
			return nil, ErrRefreshEmpty
		}

		// Servers that do not rotate refresh tokens return only an access token
		if pair.RefreshToken == "" {
			pair.RefreshToken = refreshToken
		}

		if err = p.store.Set(rctx, pair.AccessToken, pair.RefreshToken); err != nil {
			return nil, errors.Join(ErrStoreWrite, err)
		}
		return pair, nil
	})

	select {
	case <-ctx.Done():
		return schema.AuthResponse{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return schema.AuthResponse{}, res.Err
		}
		return res.Val.(schema.AuthResponse), nil
	}
}

// giveUp erases the stored credentials and returns the original 401
func (p *Pipeline) giveUp(ctx context.Context, resp *http.Response, logFields *fields.Fields) *http.Response {
	if err := p.store.Clear(context.WithoutCancel(ctx)); err != nil {
		logFields.AppendKV("clear_error", err.Error())
		p.logger.Error(eidClearFailed, "unable to clear credentials", logFields)
		return resp
	}
	p.logger.Info(eidCleared, "credentials cleared", logFields)
	return resp
}

// isOrigin reports whether u addresses the API origin
func (p *Pipeline) isOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, p.scheme) && strings.EqualFold(u.Host, p.host)
}

func (p *Pipeline) isExempt(path string) bool {
	for _, e := range p.exempt {
		if e != "" && strings.Contains(path, e) {
			return true
		}
	}
	return false
}

// outbound clones req for one attempt with a fresh body and, when token is
// not empty, an Authorization header. req itself is never modified.
func outbound(ctx context.Context, req *http.Request, body bodyFunc, token string) (*http.Request, error) {
	out := req.Clone(ctx)
	if body != nil {
		rc, err := body()
		if err != nil {
			return nil, err
		}
		out.Body = rc
		out.GetBody = body
	}
	if token != "" {
		if out.Header == nil {
			out.Header = make(http.Header)
		}
		out.Header.Set("Authorization", "Bearer "+token)
	}
	return out, nil
}
