/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package login

import (
	"context"
	"fmt"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
)

// ForgotPassword asks the server to email a reset code. The server answers
// the same way whether or not the address is registered.
func (l *Login) ForgotPassword(ctx context.Context, email string) error {
	req := schema.ForgotPasswordRequest{Email: email}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	if err := accepted(l.comms.Post(ctx, schema.EndpointForgotPassword, req)); err != nil {
		return err
	}
	l.logger.Info(1206, "password reset requested", fields.NewFields(fields.NewField("email", req.Email)))
	return nil
}

// ResetPassword sets a new password with an emailed code. Every existing
// session ends, so stored credentials are cleared as well.
func (l *Login) ResetPassword(ctx context.Context, req schema.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := accepted(l.comms.Post(ctx, schema.EndpointResetPassword, req)); err != nil {
		return err
	}
	l.logger.Info(1207, "password reset", nil)

	if err := l.store.Clear(ctx); err != nil {
		return fmt.Errorf("password reset but credentials could not be cleared: %w", err)
	}
	return nil
}

// VerifyEmail confirms the account's email address with an emailed code
func (l *Login) VerifyEmail(ctx context.Context, token string) error {
	req := schema.VerifyEmailRequest{Token: token}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := accepted(l.comms.Post(ctx, schema.EndpointVerifyEmail, req)); err != nil {
		return err
	}
	l.logger.Info(1208, "email verified", nil)
	return nil
}

// SendVerification asks for a new verification email for the signed in user
func (l *Login) SendVerification(ctx context.Context) error {
	if err := accepted(l.comms.Post(ctx, schema.EndpointSendVerification, nil)); err != nil {
		return err
	}
	l.logger.Info(1209, "verification email requested", nil)
	return nil
}

func accepted(code int, data []byte, err error) error {
	if err != nil {
		return err
	}
	if code < 200 || code > 299 {
		return schema.ParseAPIError(code, data)
	}
	return nil
}
