/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package interfaces

import "context"

// Credential store keys
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// CredentialStore persists the access/refresh token pair. Implementations
// perform blocking I/O and must be safe for concurrent use.
type CredentialStore interface {
	// Get returns the value for key, or "" when it is not stored
	Get(ctx context.Context, key string) (string, error)

	// Set stores both tokens; either both are written or neither is
	Set(ctx context.Context, accessToken, refreshToken string) error

	// Clear erases both tokens
	Clear(ctx context.Context) error
}
