/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package login obtains and discards the credential pair
package login

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/CardScan/CardScan/cli/global"
	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/null"
	"github.com/CardScan/CardScan/common/schema"
)

var ErrEmptyToken = errors.New("server returned an empty token")

type Login struct {
	comms  global.Comms
	store  interfaces.CredentialStore
	logger interfaces.Logger
}

// New returns a Login that talks through comms and saves tokens in store
func New(comms global.Comms, store interfaces.CredentialStore, logger interfaces.Logger) *Login {
	if logger == nil {
		logger = null.Logger()
	}
	return &Login{comms: comms, store: store, logger: logger}
}

// Login authenticates with email and password and stores the returned pair
func (l *Login) Login(ctx context.Context, req schema.LoginRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	code, data, err := l.comms.Post(ctx, schema.EndpointLogin, req)
	if err != nil {
		return err
	}
	if err = l.save(ctx, code, data); err != nil {
		return err
	}

	l.logger.Info(1201, "logged in", fields.NewFields(fields.NewField("email", req.Email)))
	return nil
}

// Register creates an account and stores the returned pair
func (l *Login) Register(ctx context.Context, req schema.RegisterRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	code, data, err := l.comms.Post(ctx, schema.EndpointRegister, req)
	if err != nil {
		return err
	}
	if err = l.save(ctx, code, data); err != nil {
		return err
	}

	l.logger.Info(1202, "registered", fields.NewFields(fields.NewField("email", req.Email)))
	return nil
}

// LoginOrRegister logs in and, when the server does not know the email
// address, registers it with the same password. It reports whether a new
// account was created.
func (l *Login) LoginOrRegister(ctx context.Context, req schema.RegisterRequest) (bool, error) {
	err := l.Login(ctx, schema.LoginRequest{Email: req.Email, Password: req.Password})
	if err == nil {
		return false, nil
	}

	var apiErr *schema.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Code != schema.ErrCodeUserNotFound {
		return false, err
	}

	l.logger.Info(1203, "user not found, registering", nil)
	if err = l.Register(ctx, req); err != nil {
		return false, err
	}
	return true, nil
}

// Logout tells the server to revoke the refresh token and then clears the
// local credentials whether or not the server could be reached.
func (l *Login) Logout(ctx context.Context) error {
	refreshToken, err := l.store.Get(ctx, interfaces.KeyRefreshToken)
	if err == nil && refreshToken != "" {
		code, data, postErr := l.comms.Post(ctx, schema.EndpointLogout, schema.LogoutRequest{RefreshToken: refreshToken})
		switch {
		case postErr != nil:
			l.logger.Warning(1204, "logout request failed", fields.NewFields(fields.NewField("error", postErr.Error())))
		case code >= 300:
			l.logger.Warning(1204, "logout rejected", fields.NewFields(
				fields.NewField("status", code),
				fields.NewField("error", schema.ParseAPIError(code, data).Error())))
		}
	}

	if err = l.store.Clear(ctx); err != nil {
		return fmt.Errorf("unable to clear credentials: %w", err)
	}
	l.logger.Info(1205, "logged out", nil)
	return nil
}

// save stores the token pair from a successful auth response or converts
// an error response into *schema.APIError
func (l *Login) save(ctx context.Context, code int, data []byte) error {
	if code < 200 || code > 299 {
		return schema.ParseAPIError(code, data)
	}

	var resp schema.AuthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return ErrEmptyToken
	}
	return l.store.Set(ctx, resp.AccessToken, resp.RefreshToken)
}
