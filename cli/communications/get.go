/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import (
	"context"
	"net/http"
	"net/url"
)

// Get sends a GET request to the specified endpoint and returns the response body.
func (c *Communications) Get(ctx context.Context, endpoint string) (int, []byte, error) {
	return c.sendRequest(ctx, http.MethodGet, endpoint, nil)
}

// GetQuery sends a GET request with query parameters appended to the endpoint
func (c *Communications) GetQuery(ctx context.Context, endpoint string, query url.Values) (int, []byte, error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.sendRequest(ctx, http.MethodGet, endpoint, nil)
}
