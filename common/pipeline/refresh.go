/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/CardScan/CardScan/common/schema"
)

var (
	ErrRefreshRejected = errors.New("refresh rejected")
	ErrRefreshEmpty    = errors.New("refresh returned no access token")
)

// maxRefreshBody caps the refresh response that will be decoded
const maxRefreshBody = 64 << 10

// Refresher exchanges a refresh token for a new token pair
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (schema.AuthResponse, error)
}

// HTTPRefresher calls GET <url>?token=<refresh token>
type HTTPRefresher struct {
	url    string
	client *http.Client
}

// NewHTTPRefresher returns a refresher for refreshURL. The transport must
// not be a Pipeline, otherwise a rejected refresh would recurse.
func NewHTTPRefresher(refreshURL string, transport http.RoundTripper) *HTTPRefresher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &HTTPRefresher{
		url: refreshURL,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Refresh performs the exchange. Any non-2xx status, an empty body, a body
// that is not JSON, or a missing access token is an error.
func (h *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (schema.AuthResponse, error) {
	var pair schema.AuthResponse

	u, err := url.Parse(h.url)
	if err != nil {
		return pair, fmt.Errorf("invalid refresh URL: %w", err)
	}
	q := u.Query()
	q.Set(schema.RefreshTokenParam, refreshToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return pair, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return pair, fmt.Errorf("refresh request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pair, fmt.Errorf("%w: HTTP %d", ErrRefreshRejected, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRefreshBody))
	if err != nil {
		return pair, fmt.Errorf("failed to read refresh response: %w", err)
	}
	if len(body) == 0 {
		return pair, ErrRefreshEmpty
	}

	if err = json.Unmarshal(body, &pair); err != nil {
		return pair, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if pair.AccessToken == "" {
		return pair, ErrRefreshEmpty
	}
	return pair, nil
}
