//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package schema

//goland:noinspection ALL
const (
	EndpointLogin            = "/api/v1/auth/login"
	EndpointRegister         = "/api/v1/auth/register"
	EndpointRefresh          = "/api/v1/auth/refresh"
	EndpointLogout           = "/api/v1/auth/logout"
	EndpointForgotPassword   = "/api/v1/auth/forgot-password"
	EndpointResetPassword    = "/api/v1/auth/reset-password"
	EndpointVerifyEmail      = "/api/v1/auth/verify-email"
	EndpointMe               = "/api/v1/user/me"
	EndpointSendVerification = "/api/v1/user/send-verification"
	EndpointContacts         = "/api/v1/contacts"
	EndpointPing             = "/api/v1/ping"
	EndpointHealth           = "/health"
)

// RefreshTokenParam is the query parameter carrying the refresh token
const RefreshTokenParam = "token"

// ContactSearchParam filters GET /api/v1/contacts
const ContactSearchParam = "q"

// ExemptPaths are sent without credentials and never trigger a refresh
var ExemptPaths = []string{
	EndpointLogin,
	EndpointRegister,
	EndpointForgotPassword,
	EndpointResetPassword,
	EndpointVerifyEmail,
}

//goland:noinspection ALL
const (
	TokenPurposeAccess  = "access"
	TokenPurposeRefresh = "refresh"
	TokenPurposeReset   = "reset"
	TokenPurposeVerify  = "verify"
)
