/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package schema

import (
	"errors"
	"strings"
)

// MinPasswordLength is enforced on login and registration
const MinPasswordLength = 6

var (
	ErrEmailRequired    = errors.New("a valid email address is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrNameRequired     = errors.New("full name is required")
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// AuthResponse is returned by login, register, and refresh
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest asks for a password reset code by email
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest sets a new password using the emailed code
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// VerifyEmailRequest confirms an email address using the emailed code
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

var ErrTokenRequired = errors.New("a token is required")

// Normalize trims whitespace and lower-cases the email address
func (r *ForgotPasswordRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r ForgotPasswordRequest) Validate() error {
	if !validEmail(r.Email) {
		return ErrEmailRequired
	}
	return nil
}

func (r ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return ErrTokenRequired
	}
	if len(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func (r VerifyEmailRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return ErrTokenRequired
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}

// Validate checks the request before it is sent or processed
func (r LoginRequest) Validate() error {
	if !validEmail(r.Email) {
		return ErrEmailRequired
	}
	if len(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Validate checks the request before it is sent or processed
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return ErrNameRequired
	}
	return LoginRequest{Email: r.Email, Password: r.Password}.Validate()
}

// Normalize trims whitespace and lower-cases the email address
func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Normalize trims whitespace and lower-cases the email address
func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}
