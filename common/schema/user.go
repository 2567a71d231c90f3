/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package schema

import "time"

// User is the profile returned by GET /api/v1/user/me
type User struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"displayName"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
