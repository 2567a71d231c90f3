/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/server/db"
	"github.com/CardScan/CardScan/server/global"
	"github.com/CardScan/CardScan/server/mailer"
)

var ErrAlreadyVerified = errors.New("email address is already verified")

// ForgotPassword mails a password reset code to the account with this
// email address. An unknown address is not an error, so callers cannot
// use it to discover which addresses are registered.
func (d *Data) ForgotPassword(ctx context.Context, req schema.ForgotPasswordRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := d.database.GetUserByEmail(req.Email)
	if errors.Is(err, db.ErrUserNotFound) {
		d.logger.Info(2310, "password reset for unknown email", nil)
		return nil
	}
	if err != nil {
		return err
	}

	token, err := d.createToken(user.ID, schema.TokenPurposeReset)
	if err != nil {
		return err
	}

	life := d.conf.SC.Get(global.ConfigResetLife).Int()
	msg := message(user, "Reset your CardScan password",
		fmt.Sprintf("Use this code to choose a new password. It expires in %d minutes.", life),
		"cardscan password reset --token "+token)
	if err = d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("unable to send reset email: %w", err)
	}

	d.logger.Info(2311, "password reset email sent", fields.NewFields(fields.NewField("user", user.ID)))
	return nil
}

// ResetPassword sets a new password using a code from ForgotPassword. The
// code works once. Every token issued before the reset stops working.
func (d *Data) ResetPassword(req schema.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := d.validateClaims(req.Token, schema.TokenPurposeReset)
	if err != nil {
		return err
	}

	// The code is spent before the password changes
	if err = d.database.Revoke(claims.ID, claims.Subject, expiry(claims)); err != nil {
		return err
	}
	if err = d.database.SetPassword(claims.Subject, req.Password); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	d.logger.Info(2312, "password reset", fields.NewFields(fields.NewField("user", claims.Subject)))
	return nil
}

// SendVerification mails a new verification code to the user
func (d *Data) SendVerification(ctx context.Context, userID string) error {
	user, err := d.database.GetUser(userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	return d.mailVerification(ctx, user)
}

// VerifyEmail marks the address confirmed using a code from SendVerification
func (d *Data) VerifyEmail(req schema.VerifyEmailRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	subject, err := d.ValidateToken(req.Token, schema.TokenPurposeVerify)
	if err != nil {
		return err
	}
	if err = d.database.SetEmailVerified(subject); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	d.logger.Info(2313, "email verified", fields.NewFields(fields.NewField("user", subject)))
	return nil
}

func (d *Data) mailVerification(ctx context.Context, user db.UserRecord) error {
	token, err := d.createToken(user.ID, schema.TokenPurposeVerify)
	if err != nil {
		return err
	}

	msg := message(user, "Confirm your CardScan email address",
		"Use this code to confirm your email address.",
		"cardscan account verify --token "+token)
	if err = d.mailer.Send(ctx, msg); err != nil {
		return err
	}

	d.logger.Info(2314, "verification email sent", fields.NewFields(fields.NewField("user", user.ID)))
	return nil
}

// message builds an email telling the user to run command
func message(user db.UserRecord, subject, intro, command string) mailer.Message {
	text := fmt.Sprintf("Hello %s,\n\n%s\n\n    %s\n\nIf you did not ask for this, you can ignore this email.\n",
		user.DisplayName, intro, command)
	body := fmt.Sprintf("<p>Hello %s,</p><p>%s</p><pre>%s</pre><p>If you did not ask for this, you can ignore this email.</p>",
		html.EscapeString(user.DisplayName), html.EscapeString(intro), html.EscapeString(command))

	return mailer.Message{
		ToName:    user.DisplayName,
		ToAddress: user.Email,
		Subject:   subject,
		Text:      text,
		HTML:      body,
	}
}

func expiry(claims *CustomClaims) time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
