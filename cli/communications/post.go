/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Post sends a JSON payload to the specified endpoint and returns the response body.
func (c *Communications) Post(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	jsonData, err := encode(payload)
	if err != nil {
		return 0, nil, err
	}
	return c.sendRequest(ctx, http.MethodPost, endpoint, jsonData)
}

// Put sends a JSON payload to the specified endpoint and returns the response body.
func (c *Communications) Put(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	jsonData, err := encode(payload)
	if err != nil {
		return 0, nil, err
	}
	return c.sendRequest(ctx, http.MethodPut, endpoint, jsonData)
}

func encode(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}
	return jsonData, nil
}
