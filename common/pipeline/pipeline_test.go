/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/ulogger"
)

func get(t *testing.T, p *Pipeline, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := p.Execute(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestNewRequiresStoreAndRefresher(t *testing.T) {
	_, err := New(WithRefreshURL("http://localhost/api/v1/auth/refresh"))
	require.ErrorIs(t, err, ErrNoStore)

	_, err = New(WithStore(newMemStore("", "")))
	require.ErrorIs(t, err, ErrNoRefresher)

	_, err = New(WithStore(newMemStore("", "")), WithRefresher(funcRefresher(nil)))
	require.ErrorIs(t, err, ErrNoBaseURL)

	_, err = New(WithStore(newMemStore("", "")), WithBaseURL("localhost:8080"))
	require.Error(t, err)
}

func TestExemptRequestsNeverCarryAuthorization(t *testing.T) {
	b := newBackend(t, "a1")
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)

	req, err := http.NewRequest(http.MethodPost, b.url(schema.EndpointLogin), strings.NewReader(`{}`))
	require.NoError(t, err)

	resp, err := p.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"accessToken":"a0","refreshToken":"r0"}`, readBody(t, resp))

	require.Equal(t, []string{""}, b.authHeaders)
	require.Zero(t, store.gets.Load())
	require.Zero(t, b.refreshes.Load())
}

func TestExemptMatchesSubstringOfPath(t *testing.T) {
	p, err := New(
		WithStore(newMemStore("", "")),
		WithRefresher(funcRefresher(nil)),
		WithBaseURL("http://localhost:8080"))
	require.NoError(t, err)

	require.True(t, p.isExempt("/api/v1/auth/login"))
	require.True(t, p.isExempt("/prefix/api/v1/auth/register/extra"))
	require.False(t, p.isExempt("/api/v1/auth/refresh"))
	require.False(t, p.isExempt("/api/v1/contacts"))
}

func TestValidTokenSingleCall(t *testing.T) {
	b := newBackend(t, "a1")
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)

	for i := 0; i < 2; i++ {
		resp := get(t, p, b.url(schema.EndpointContacts))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, `[]`, readBody(t, resp))
	}

	require.EqualValues(t, 2, b.forwards.Load())
	require.Zero(t, b.refreshes.Load())
	require.Equal(t, []string{"Bearer a1", "Bearer a1"}, b.authHeaders)
}

func TestNoAccessTokenSendsNoHeader(t *testing.T) {
	b := newBackend(t, "a1")
	store := newMemStore("", "")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, []string{""}, b.authHeaders)
}

func TestRefreshAndRetry(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `[]`, readBody(t, resp))

	require.EqualValues(t, 2, b.forwards.Load())
	require.EqualValues(t, 1, b.refreshes.Load())
	require.Equal(t, []string{"r1"}, b.refreshTokens)
	require.Equal(t, []string{"Bearer a1", "Bearer a2"}, b.authHeaders)

	access, refresh := store.pair()
	require.Equal(t, "a2", access)
	require.Equal(t, "r2", refresh)
	require.EqualValues(t, 1, store.sets.Load())
	require.Zero(t, store.clears.Load())
}

func TestRefreshWithoutRotationKeepsRefreshToken(t *testing.T) {
	b := newBackend(t, "a2")
	b.refreshBody = `{"accessToken":"a2"}`
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access, refresh := store.pair()
	require.Equal(t, "a2", access)
	require.Equal(t, "r1", refresh)
}

func TestUnauthorizedWithoutRefreshToken(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, expiredBody, readBody(t, resp))

	require.EqualValues(t, 1, b.forwards.Load())
	require.Zero(t, b.refreshes.Load())
	require.Zero(t, store.sets.Load())
	require.Zero(t, store.clears.Load())

	access, _ := store.pair()
	require.Equal(t, "a1", access)
}

func TestRefreshFailureClearsCredentials(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rejected", http.StatusUnauthorized, `{"error":"unauthorized","message":"refresh token expired"}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"empty body", http.StatusOK, ``},
		{"not json", http.StatusOK, `<html></html>`},
		{"no access token", http.StatusOK, `{"accessToken":"","refreshToken":"r2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t, "a2")
			b.refreshStatus = tt.status
			b.refreshBody = tt.body
			store := newMemStore("a1", "r1")
			p := b.pipeline(t, store)

			resp := get(t, p, b.url(schema.EndpointContacts))
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, expiredBody, readBody(t, resp))

			require.EqualValues(t, 1, b.forwards.Load())
			require.EqualValues(t, 1, b.refreshes.Load())
			require.EqualValues(t, 1, store.clears.Load())

			access, refresh := store.pair()
			require.Empty(t, access)
			require.Empty(t, refresh)
		})
	}
}

func TestRefreshNetworkErrorClearsCredentials(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")

	// Nothing listens on the refresh URL once the second server is closed
	dead := newBackend(t, "unused")
	deadURL := dead.url(schema.EndpointRefresh)
	dead.srv.Close()

	p, err := New(
		WithStore(store),
		WithTransport(b.srv.Client().Transport),
		WithBaseURL(b.srv.URL),
		WithRefreshURL(deadURL))
	require.NoError(t, err)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.EqualValues(t, 1, store.clears.Load())
}

func TestRetryResponseReturnedWithoutSecondRefresh(t *testing.T) {
	b := newBackend(t, "a2")
	b.alwaysUnauthorized = true
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, expiredBody, readBody(t, resp))

	require.EqualValues(t, 2, b.forwards.Load())
	require.EqualValues(t, 1, b.refreshes.Load())

	// The refreshed pair was stored and is not cleared by the retry's 401
	access, refresh := store.pair()
	require.Equal(t, "a2", access)
	require.Equal(t, "r2", refresh)
}

func TestBodyReplayedOnRetry(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)

	// A body without GetBody must be buffered for the retry
	req, err := http.NewRequest(http.MethodPost, b.url(schema.EndpointContacts), nil)
	require.NoError(t, err)
	req.Body = io.NopCloser(strings.NewReader(`{"name":"Ada"}`))

	resp, err := p.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{`{"name":"Ada"}`, `{"name":"Ada"}`}, b.bodies)

	// The caller's request is never modified
	require.Empty(t, req.Header.Get("Authorization"))
}

func TestStoreWriteFailureClears(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")
	store.setErr = errors.New("disk full")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.EqualValues(t, 1, b.forwards.Load())
	require.EqualValues(t, 1, store.clears.Load())
}

func TestStoreReadFailureClears(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")
	store.getErr["refresh_token"] = errors.New("cipher: message authentication failed")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Zero(t, b.refreshes.Load())
	require.EqualValues(t, 1, store.clears.Load())
}

func TestClearFailureStillReturnsOriginal401(t *testing.T) {
	b := newBackend(t, "a2")
	b.refreshStatus = http.StatusUnauthorized
	store := newMemStore("a1", "r1")
	store.clearErr = errors.New("read-only")
	p := b.pipeline(t, store)

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, expiredBody, readBody(t, resp))
}

func TestTransportErrorOnFirstAttempt(t *testing.T) {
	b := newBackend(t, "a1")
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)
	target := b.url(schema.EndpointContacts)
	b.srv.Close()

	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	_, err = p.Execute(context.Background(), req)
	require.Error(t, err)
	require.Zero(t, store.clears.Load())
}

func TestInjectedRefresher(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")

	r := &mockRefresher{}
	r.On("Refresh", mock.Anything, "r1").
		Return(schema.AuthResponse{AccessToken: "a2", RefreshToken: "r9"}, nil).
		Once()

	p := b.pipeline(t, store, WithRefresher(r))
	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r.AssertExpectations(t)
	require.Zero(t, b.refreshes.Load())
	_, refresh := store.pair()
	require.Equal(t, "r9", refresh)
}

func TestConcurrentRefreshesAreCoalesced(t *testing.T) {
	const workers = 8

	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")

	var calls atomic.Int32
	refresher := funcRefresher(func(ctx context.Context, refreshToken string) (schema.AuthResponse, error) {
		calls.Add(1)

		// Hold the exchange open until every worker has seen its 401
		deadline := time.Now().Add(5 * time.Second)
		for b.unauthorized.Load() < workers && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(50 * time.Millisecond)
		return schema.AuthResponse{AccessToken: "a2", RefreshToken: "r2"}, nil
	})

	p := b.pipeline(t, store, WithRefresher(refresher))

	var wg sync.WaitGroup
	statuses := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodGet, b.url(schema.EndpointContacts), nil)
			if err != nil {
				return
			}
			resp, err := p.Execute(context.Background(), req)
			if err != nil {
				return
			}
			statuses[i] = resp.StatusCode
			_ = resp.Body.Close()
		}(i)
	}
	wg.Wait()

	for _, status := range statuses {
		require.Equal(t, http.StatusOK, status)
	}
	require.Less(t, calls.Load(), int32(workers))
	require.Zero(t, store.clears.Load())
}

func TestCancelledDuringRefreshKeepsCredentials(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")

	release := make(chan struct{})
	started := make(chan struct{})
	refresher := funcRefresher(func(ctx context.Context, refreshToken string) (schema.AuthResponse, error) {
		close(started)
		<-release
		return schema.AuthResponse{}, errors.New("too late")
	})
	defer close(release)

	p := b.pipeline(t, store, WithRefresher(refresher))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	req, err := http.NewRequest(http.MethodGet, b.url(schema.EndpointContacts), nil)
	require.NoError(t, err)
	_, err = p.Execute(ctx, req)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, store.clears.Load())

	access, refresh := store.pair()
	require.Equal(t, "a1", access)
	require.Equal(t, "r1", refresh)
}

func TestClientUsesPipeline(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store)

	resp, err := p.Client(5 * time.Second).Get(b.url(schema.EndpointContacts))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	require.EqualValues(t, 1, b.refreshes.Load())
}

func TestRedirectToForeignHostCarriesNoToken(t *testing.T) {
	var mu sync.Mutex
	var apiAuth, foreignAuth []string

	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		foreignAuth = append(foreignAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(foreign.Close)

	mux := http.NewServeMux()
	mux.HandleFunc(schema.EndpointContacts, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		apiAuth = append(apiAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		http.Redirect(w, r, foreign.URL+"/collect", http.StatusFound)
	})
	api := httptest.NewServer(mux)
	t.Cleanup(api.Close)

	store := newMemStore("secret-access", "r1")
	p, err := New(
		WithStore(store),
		WithTransport(api.Client().Transport),
		WithRefreshURL(api.URL+schema.EndpointRefresh))
	require.NoError(t, err)

	resp, err := p.Client(5 * time.Second).Get(api.URL + schema.EndpointContacts)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.Equal(t, []string{"Bearer secret-access"}, apiAuth)
	require.Equal(t, []string{""}, foreignAuth)
}

func TestForeignHostSkipsRefresh(t *testing.T) {
	b := newBackend(t, "a2")
	store := newMemStore("a1", "r1")
	p := b.pipeline(t, store, WithBaseURL("https://api.cardscan.example"))

	resp := get(t, p, b.url(schema.EndpointContacts))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	require.Equal(t, []string{""}, b.authHeaders)
	require.Zero(t, store.gets.Load())
	require.Zero(t, b.refreshes.Load())
	require.Zero(t, store.clears.Load())
}

func TestUnreadable401BodyIsLoggedAndReplayed(t *testing.T) {
	broken := errors.New("connection reset")
	transport := transportFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode:    http.StatusUnauthorized,
			Header:        http.Header{"Content-Length": {"100"}},
			ContentLength: 100,
			Body:          &brokenBody{data: strings.NewReader(`{"error":"tok`), err: broken},
			Request:       req,
		}, nil
	})

	var buf bytes.Buffer
	logger, err := ulogger.New(ulogger.WithWriter(&buf))
	require.NoError(t, err)

	store := newMemStore("a1", "r1")
	p, err := New(
		WithStore(store),
		WithTransport(transport),
		WithBaseURL("http://localhost:8080"),
		WithLogger(logger),
		WithRefresher(funcRefresher(func(context.Context, string) (schema.AuthResponse, error) {
			return schema.AuthResponse{}, errors.New("refresh rejected")
		})))
	require.NoError(t, err)

	resp := get(t, p, "http://localhost:8080"+schema.EndpointContacts)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.EqualValues(t, -1, resp.ContentLength)

	data, err := io.ReadAll(resp.Body)
	require.ErrorIs(t, err, broken)
	require.Equal(t, `{"error":"tok`, string(data))
	require.EqualValues(t, 1, store.clears.Load())
	require.Contains(t, buf.String(), "3012 unable to read 401 body")
}

func TestOversized401BodyIsTruncated(t *testing.T) {
	big := strings.Repeat("x", maxHeldBody+10)
	transport := transportFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(big)),
			Request:    req,
		}, nil
	})

	var buf bytes.Buffer
	logger, err := ulogger.New(ulogger.WithWriter(&buf))
	require.NoError(t, err)

	p, err := New(
		WithStore(newMemStore("a1", "r1")),
		WithTransport(transport),
		WithBaseURL("http://localhost:8080"),
		WithLogger(logger),
		WithRefresher(funcRefresher(func(context.Context, string) (schema.AuthResponse, error) {
			return schema.AuthResponse{}, errors.New("refresh rejected")
		})))
	require.NoError(t, err)

	resp := get(t, p, "http://localhost:8080"+schema.EndpointContacts)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.EqualValues(t, maxHeldBody, resp.ContentLength)
	require.Len(t, readBody(t, resp), maxHeldBody)
	require.Contains(t, buf.String(), "401 body truncated")
}
