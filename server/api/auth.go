//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/userver"
	"github.com/CardScan/CardScan/server/data"
)

// AuthInfo identifies the caller of an authenticated route
type AuthInfo struct {
	ID string
}

// NewAuthFunc returns the AuthFunc that accepts a valid access token
func (a *API) NewAuthFunc() userver.AuthFunc {
	return func(ip, authHeader string) (any, error) {

		// Set up log fields of interest
		logFields := fields.NewFields(fields.NewField("src_ip", ip))

		if authHeader == "" {
			a.logger.Debug(2831, "authentication failure: missing Authorization header", logFields)
			return nil, authFailure(false)
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			a.logger.Warning(2832, "authentication failure: invalid Authorization header format", logFields)
			return nil, authFailure(false)
		}

		user, err := a.data.ValidateToken(tokenString, schema.TokenPurposeAccess)
		if err != nil {
			logFields.AppendKV("error", err.Error())
			if errors.Is(err, data.ErrTokenExpired) {
				a.logger.Info(2833, "authentication expired", logFields)
				return nil, authFailure(true)
			}
			a.logger.Warning(2834, "authentication failure", logFields)
			return nil, authFailure(false)
		}

		logFields.AppendKV("id", user)
		a.logger.Debug(2835, "authentication success", logFields)
		return AuthInfo{ID: user}, nil
	}
}

// authFailure returns the body sent with 401 responses. The only
// variation is for expired tokens.
func authFailure(expired bool) *schema.APIError {
	if expired {
		return schema.NewAPIError(http.StatusUnauthorized, schema.ErrCodeTokenExpired, "token expired")
	}
	return schema.NewAPIError(http.StatusUnauthorized, schema.ErrCodeUnauthorized, "authentication failed")
}

func GetAuthDetails(req *http.Request) AuthInfo {
	details, ok := userver.AuthDetails(req).(AuthInfo)
	if !ok {
		return AuthInfo{}
	}
	return details
}
