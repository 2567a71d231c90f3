/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/server/db"
)

//goland:noinspection ALL
var (
	ErrUserExists   = db.ErrUserExists
	ErrUserNotFound = db.ErrUserNotFound
	ErrBadPassword  = db.ErrBadPassword
)

// Login authenticates a user and returns access and refresh tokens
func (d *Data) Login(req schema.LoginRequest) (schema.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return schema.AuthResponse{}, err
	}

	user, err := d.database.CheckPassword(req.Email, req.Password)
	if err != nil {
		// Impose a random delay to make brute force attacks take longer
		randomDelay()
		return schema.AuthResponse{}, err
	}

	d.logger.Info(2301, "login", fields.NewFields(fields.NewField("user", user.ID)))
	return d.issue(user.ID)
}

// Register creates an account and returns tokens for it. A verification
// code is mailed to the new address; failing to send it is only logged.
func (d *Data) Register(ctx context.Context, req schema.RegisterRequest) (schema.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return schema.AuthResponse{}, err
	}

	user, err := d.database.CreateUser(db.UserRecord{
		ID:          "U-" + uuid.New().String(),
		DisplayName: req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}, req.Password)
	if err != nil {
		return schema.AuthResponse{}, err
	}

	d.logger.Info(2302, "registered", fields.NewFields(fields.NewField("user", user.ID)))
	if err = d.mailVerification(ctx, user); err != nil {
		d.logger.Error(2305, "unable to send verification email", fields.NewFields(
			fields.NewField("user", user.ID),
			fields.NewField("error", err.Error())))
	}
	return d.issue(user.ID)
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token is not rotated: the same one is returned and remains valid until
// it expires or is revoked, so concurrent exchanges all succeed.
func (d *Data) Refresh(refreshToken string) (schema.AuthResponse, error) {
	subject, err := d.ValidateToken(refreshToken, schema.TokenPurposeRefresh)
	if err != nil {
		return schema.AuthResponse{}, err
	}

	accessToken, err := d.createToken(subject, schema.TokenPurposeAccess)
	if err != nil {
		return schema.AuthResponse{}, err
	}

	d.logger.Debug(2303, "token refreshed", fields.NewFields(fields.NewField("user", subject)))
	return schema.AuthResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout revokes a refresh token. Expired tokens are accepted so that a
// client can always log out; tokens that fail verification are not.
func (d *Data) Logout(refreshToken string) error {
	claims, err := d.parseToken(refreshToken, schema.TokenPurposeRefresh)
	if errors.Is(err, ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = d.database.Revoke(claims.ID, claims.Subject, expiry(claims)); err != nil {
		return err
	}

	d.logger.Info(2304, "logout", fields.NewFields(
		fields.NewField("user", claims.Subject),
		fields.NewField("token", claims.ID)))
	return nil
}

// randomDelay imposes a random delay between 0 and 1000ms
func randomDelay() {
	time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
}
