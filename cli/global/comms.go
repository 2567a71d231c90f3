/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"context"
	"net/url"
)

// Comms sends JSON requests to the backend and returns the status code and body
type Comms interface {
	Post(ctx context.Context, endpoint string, payload any) (int, []byte, error)
	Put(ctx context.Context, endpoint string, payload any) (int, []byte, error)
	Get(ctx context.Context, endpoint string) (int, []byte, error)
	GetQuery(ctx context.Context, endpoint string, query url.Values) (int, []byte, error)
	Delete(ctx context.Context, endpoint string) (int, []byte, error)
}
