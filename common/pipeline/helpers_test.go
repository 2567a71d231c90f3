/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/schema"
)

// memStore is an in-memory credential store with injectable failures
type memStore struct {
	mu       sync.Mutex
	access   string
	refresh  string
	getErr   map[string]error
	setErr   error
	clearErr error
	gets     atomic.Int32
	sets     atomic.Int32
	clears   atomic.Int32
}

var _ interfaces.CredentialStore = (*memStore)(nil)

func newMemStore(access, refresh string) *memStore {
	return &memStore{access: access, refresh: refresh, getErr: map[string]error{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.gets.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[key]; err != nil {
		return "", err
	}
	switch key {
	case interfaces.KeyAccessToken:
		return m.access, nil
	case interfaces.KeyRefreshToken:
		return m.refresh, nil
	}
	return "", nil
}

func (m *memStore) Set(_ context.Context, access, refresh string) error {
	m.sets.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.access, m.refresh = access, refresh
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.clears.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.access, m.refresh = "", ""
	return nil
}

func (m *memStore) pair() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh
}

const expiredBody = `{"error":"token_expired","message":"token expired"}`

// backend is a fake API with a login route, a protected contacts route,
// and a refresh route
type backend struct {
	mu                 sync.Mutex
	valid              string
	alwaysUnauthorized bool
	refreshStatus      int
	refreshBody        string
	authHeaders        []string
	bodies             []string
	refreshTokens      []string

	forwards     atomic.Int32
	unauthorized atomic.Int32
	refreshes    atomic.Int32
	logins       atomic.Int32

	srv *httptest.Server
}

func newBackend(t *testing.T, valid string) *backend {
	t.Helper()
	b := &backend{
		valid:         valid,
		refreshStatus: http.StatusOK,
		refreshBody:   `{"accessToken":"` + valid + `","refreshToken":"r2"}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(schema.EndpointLogin, func(w http.ResponseWriter, r *http.Request) {
		b.logins.Add(1)
		b.mu.Lock()
		b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"accessToken":"a0","refreshToken":"r0"}`)
	})

	mux.HandleFunc(schema.EndpointContacts, func(w http.ResponseWriter, r *http.Request) {
		b.forwards.Add(1)
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
		b.bodies = append(b.bodies, string(body))
		ok := !b.alwaysUnauthorized && r.Header.Get("Authorization") == "Bearer "+b.valid
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			b.unauthorized.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, expiredBody)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})

	mux.HandleFunc(schema.EndpointRefresh, func(w http.ResponseWriter, r *http.Request) {
		b.refreshes.Add(1)
		b.mu.Lock()
		b.refreshTokens = append(b.refreshTokens, r.URL.Query().Get(schema.RefreshTokenParam))
		status, body := b.refreshStatus, b.refreshBody
		b.mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) url(path string) string {
	return b.srv.URL + path
}

func (b *backend) pipeline(t *testing.T, store interfaces.CredentialStore, extra ...Option) *Pipeline {
	t.Helper()
	options := []Option{
		WithStore(store),
		WithTransport(b.srv.Client().Transport),
		WithRefreshURL(b.url(schema.EndpointRefresh)),
	}
	p, err := New(append(options, extra...)...)
	require.NoError(t, err)
	return p
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// mockRefresher records Refresh calls
type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(ctx context.Context, refreshToken string) (schema.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(schema.AuthResponse), args.Error(1)
}

// funcRefresher adapts a function to Refresher
type funcRefresher func(ctx context.Context, refreshToken string) (schema.AuthResponse, error)

func (f funcRefresher) Refresh(ctx context.Context, refreshToken string) (schema.AuthResponse, error) {
	return f(ctx, refreshToken)
}

// transportFunc adapts a function to http.RoundTripper
type transportFunc func(req *http.Request) (*http.Response, error)

func (f transportFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// brokenBody yields its data and then fails with err
type brokenBody struct {
	data *strings.Reader
	err  error
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if b.data.Len() > 0 {
		return b.data.Read(p)
	}
	return 0, b.err
}

func (b *brokenBody) Close() error {
	return nil
}
