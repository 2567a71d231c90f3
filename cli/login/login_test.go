/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package login

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CardScan/CardScan/cli/communications"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/schema"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStore) Set(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[interfaces.KeyAccessToken] = access
	m.data[interfaces.KeyRefreshToken] = refresh
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

type fakeBackend struct {
	mu         sync.Mutex
	users      map[string]string
	logouts    []string
	logoutCode int
	forgot     []string
	resets     map[string]string
	verified   bool
	resent     int
}

func (f *fakeBackend) writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(schema.APIError{Code: code, Message: message})
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case schema.EndpointLogin:
		var req schema.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		password, ok := f.users[req.Email]
		if !ok {
			f.writeError(w, http.StatusNotFound, schema.ErrCodeUserNotFound, "user not found")
			return
		}
		if password != req.Password {
			f.writeError(w, http.StatusUnauthorized, schema.ErrCodeBadPassword, "invalid email or password")
			return
		}
		_ = json.NewEncoder(w).Encode(schema.AuthResponse{AccessToken: "at-" + req.Email, RefreshToken: "rt-" + req.Email})
	case schema.EndpointRegister:
		var req schema.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := f.users[req.Email]; ok {
			f.writeError(w, http.StatusConflict, schema.ErrCodeUserExists, "user exists")
			return
		}
		f.users[req.Email] = req.Password
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(schema.AuthResponse{AccessToken: "at-new", RefreshToken: "rt-new"})
	case schema.EndpointLogout:
		var req schema.LogoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.logouts = append(f.logouts, req.RefreshToken)
		if f.logoutCode != 0 {
			f.writeError(w, f.logoutCode, schema.ErrCodeInternal, "boom")
		}
	case schema.EndpointForgotPassword:
		var req schema.ForgotPasswordRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.forgot = append(f.forgot, req.Email)
		w.WriteHeader(http.StatusAccepted)
	case schema.EndpointResetPassword:
		var req schema.ResetPasswordRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		email, ok := f.resets[req.Token]
		if !ok {
			f.writeError(w, http.StatusUnauthorized, schema.ErrCodeUnauthorized, "invalid token")
			return
		}
		delete(f.resets, req.Token)
		f.users[email] = req.Password
		w.WriteHeader(http.StatusNoContent)
	case schema.EndpointVerifyEmail:
		var req schema.VerifyEmailRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Token != "verify-code" {
			f.writeError(w, http.StatusUnauthorized, schema.ErrCodeUnauthorized, "invalid token")
			return
		}
		f.verified = true
		w.WriteHeader(http.StatusNoContent)
	case schema.EndpointSendVerification:
		if f.verified {
			f.writeError(w, http.StatusConflict, schema.ErrCodeVerified, "email address is already verified")
			return
		}
		f.resent++
		w.WriteHeader(http.StatusAccepted)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setup(t *testing.T) (*Login, *memStore, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{
		users:  map[string]string{"ada@example.com": "secret1"},
		resets: map[string]string{"reset-code": "ada@example.com"},
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := newMemStore()
	return New(communications.New(srv.Client(), srv.URL), store, nil), store, backend
}

func TestLogin(t *testing.T) {
	l, store, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, l.Login(ctx, schema.LoginRequest{Email: " ADA@example.com", Password: "secret1"}))
	at, _ := store.Get(ctx, interfaces.KeyAccessToken)
	rt, _ := store.Get(ctx, interfaces.KeyRefreshToken)
	assert.Equal(t, "at-ada@example.com", at)
	assert.Equal(t, "rt-ada@example.com", rt)
}

func TestLoginWrongPassword(t *testing.T) {
	l, store, _ := setup(t)
	ctx := context.Background()

	err := l.Login(ctx, schema.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	var apiErr *schema.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid email or password", apiErr.Error())

	at, _ := store.Get(ctx, interfaces.KeyAccessToken)
	assert.Empty(t, at)
}

func TestLoginValidation(t *testing.T) {
	l, _, _ := setup(t)
	err := l.Login(context.Background(), schema.LoginRequest{Email: "ada@example.com", Password: "123"})
	require.ErrorIs(t, err, schema.ErrPasswordTooShort)
}

func TestLoginOrRegister(t *testing.T) {
	l, store, backend := setup(t)
	ctx := context.Background()

	registered, err := l.LoginOrRegister(ctx, schema.RegisterRequest{
		FullName: "Grace Hopper", Email: "grace@example.com", Password: "cobol59"})
	require.NoError(t, err)
	assert.True(t, registered)
	assert.Equal(t, "cobol59", backend.users["grace@example.com"])
	at, _ := store.Get(ctx, interfaces.KeyAccessToken)
	assert.Equal(t, "at-new", at)

	registered, err = l.LoginOrRegister(ctx, schema.RegisterRequest{
		FullName: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, registered)

	// A wrong password must not fall through to registration
	_, err = l.LoginOrRegister(ctx, schema.RegisterRequest{
		FullName: "Ada", Email: "ada@example.com", Password: "not-it"})
	require.Error(t, err)
}

func TestRegisterConflict(t *testing.T) {
	l, _, _ := setup(t)
	err := l.Register(context.Background(), schema.RegisterRequest{
		FullName: "Ada", Email: "ada@example.com", Password: "secret1"})
	var apiErr *schema.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, schema.ErrCodeUserExists, apiErr.Code)
}

func TestLogout(t *testing.T) {
	l, store, backend := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "at", "rt"))

	require.NoError(t, l.Logout(ctx))
	assert.Equal(t, []string{"rt"}, backend.logouts)
	rt, _ := store.Get(ctx, interfaces.KeyRefreshToken)
	assert.Empty(t, rt)
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	l, store, backend := setup(t)
	backend.logoutCode = http.StatusInternalServerError
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "at", "rt"))

	require.NoError(t, l.Logout(ctx))
	at, _ := store.Get(ctx, interfaces.KeyAccessToken)
	assert.Empty(t, at)
}

func TestLogoutWithoutTokenSkipsServer(t *testing.T) {
	l, _, backend := setup(t)
	require.NoError(t, l.Logout(context.Background()))
	assert.Empty(t, backend.logouts)
}

func TestPrompter(t *testing.T) {
	t.Setenv("CARDSCAN_EMAIL", "")
	t.Setenv("CARDSCAN_PASSWORD", "from-env")
	var out strings.Builder
	p := NewPrompterFrom(strings.NewReader("typed@example.com\r\nGrace\n"), &out)

	email, err := p.Email("")
	require.NoError(t, err)
	assert.Equal(t, "typed@example.com", email)

	password, err := p.Password("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", password)

	name, err := p.Ask("Full name: ")
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)

	email, err = p.Email("flag@example.com")
	require.NoError(t, err)
	assert.Equal(t, "flag@example.com", email)

	_, err = p.Ask("More: ")
	require.ErrorIs(t, err, ErrNoInput)
	assert.Contains(t, out.String(), "Email: ")
}

func TestForgotAndResetPassword(t *testing.T) {
	l, store, backend := setup(t)
	ctx := context.Background()

	require.NoError(t, l.ForgotPassword(ctx, " Ada@Example.com "))
	assert.Equal(t, []string{"ada@example.com"}, backend.forgot)
	require.ErrorIs(t, l.ForgotPassword(ctx, "not-an-address"), schema.ErrEmailRequired)

	require.NoError(t, store.Set(ctx, "at", "rt"))
	require.NoError(t, l.ResetPassword(ctx, schema.ResetPasswordRequest{Token: "reset-code", Password: "brand-new"}))
	assert.Equal(t, "brand-new", backend.users["ada@example.com"])
	rt, _ := store.Get(ctx, interfaces.KeyRefreshToken)
	assert.Empty(t, rt)

	// The code works once
	err := l.ResetPassword(ctx, schema.ResetPasswordRequest{Token: "reset-code", Password: "another1"})
	var apiErr *schema.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	require.ErrorIs(t, l.ResetPassword(ctx, schema.ResetPasswordRequest{Password: "another1"}), schema.ErrTokenRequired)
	require.NoError(t, l.Login(ctx, schema.LoginRequest{Email: "ada@example.com", Password: "brand-new"}))
}

func TestVerifyEmail(t *testing.T) {
	l, _, backend := setup(t)
	ctx := context.Background()

	require.NoError(t, l.SendVerification(ctx))
	assert.Equal(t, 1, backend.resent)

	require.ErrorIs(t, l.VerifyEmail(ctx, ""), schema.ErrTokenRequired)
	require.Error(t, l.VerifyEmail(ctx, "wrong-code"))
	require.NoError(t, l.VerifyEmail(ctx, "verify-code"))
	assert.True(t, backend.verified)

	err := l.SendVerification(ctx)
	var apiErr *schema.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, schema.ErrCodeVerified, apiErr.Code)
}

func TestNewPasswordIgnoresEnvironment(t *testing.T) {
	t.Setenv("CARDSCAN_PASSWORD", "old-password")
	var out strings.Builder
	p := NewPrompterFrom(strings.NewReader("fresh-password\n"), &out)

	password, err := p.NewPassword("")
	require.NoError(t, err)
	assert.Equal(t, "fresh-password", password)
	assert.Contains(t, out.String(), "New password: ")
}
