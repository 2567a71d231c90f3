/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package api

import (
	"errors"
	"net/http"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/userver"
	"github.com/CardScan/CardScan/server/data"
)

// @Summary User authentication
// @Description Authenticate a user and return access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param credentials body schema.LoginRequest true "User credentials"
// @Success 200 {object} schema.AuthResponse "Authentication successful"
// @Failure 401 {object} schema.APIError "Wrong password"
// @Failure 404 {object} schema.APIError "Unknown email address"
// @Router /auth/login [post]
func (a *API) postLogin(req *http.Request) userver.JResponse {
	var loginRequest schema.LoginRequest
	if err := decode(req, &loginRequest); err != nil {
		return badRequest("invalid login request")
	}

	// Information to be logged as fields
	logInfo := fields.NewFields(
		fields.NewField("src_ip", userver.RemoteIP(req)),
		fields.NewField("email", loginRequest.Email))

	pair, err := a.data.Login(loginRequest)
	if err != nil {
		logInfo.Append(fields.NewField("auth-result", "failed"), fields.NewField("error", err.Error()))
		a.logger.Warning(2862, "login failed", logInfo)

		switch {
		case errors.Is(err, data.ErrUserNotFound):
			return userver.Error(http.StatusNotFound, schema.ErrCodeUserNotFound, "no account exists for this email address")
		case errors.Is(err, data.ErrBadPassword):
			return userver.Error(http.StatusUnauthorized, schema.ErrCodeBadPassword, "invalid email or password")
		case errors.Is(err, schema.ErrEmailRequired), errors.Is(err, schema.ErrPasswordTooShort):
			return badRequest(err.Error())
		default:
			return internalError()
		}
	}

	logInfo.Append(fields.NewField("auth-result", "success"))
	a.logger.Info(2863, "successful login", logInfo)
	return success(pair)
}

// @Summary Register
// @Description Create an account and return access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param account body schema.RegisterRequest true "New account"
// @Success 201 {object} schema.AuthResponse
// @Failure 409 {object} schema.APIError "Email address already registered"
// @Router /auth/register [post]
func (a *API) postRegister(req *http.Request) userver.JResponse {
	var registerRequest schema.RegisterRequest
	if err := decode(req, &registerRequest); err != nil {
		return badRequest("invalid registration request")
	}

	logInfo := fields.NewFields(
		fields.NewField("src_ip", userver.RemoteIP(req)),
		fields.NewField("email", registerRequest.Email))

	pair, err := a.data.Register(req.Context(), registerRequest)
	if err != nil {
		logInfo.AppendKV("error", err.Error())
		a.logger.Warning(2864, "registration failed", logInfo)

		switch {
		case errors.Is(err, data.ErrUserExists):
			return userver.Error(http.StatusConflict, schema.ErrCodeUserExists, "an account already exists for this email address")
		case errors.Is(err, schema.ErrNameRequired), errors.Is(err, schema.ErrEmailRequired), errors.Is(err, schema.ErrPasswordTooShort):
			return badRequest(err.Error())
		default:
			return internalError()
		}
	}

	a.logger.Info(2865, "successful registration", logInfo)
	return created(pair)
}

// @Summary Refresh token
// @Description Exchange a refresh token for a new access token
// @Tags Authentication
// @Produce json
// @Param token query string true "Refresh token"
// @Success 200 {object} schema.AuthResponse
// @Failure 401 {object} schema.APIError
// @Router /auth/refresh [get]
func (a *API) getRefresh(req *http.Request) userver.JResponse {
	logInfo := fields.NewFields(fields.NewField("src_ip", userver.RemoteIP(req)))

	token := req.URL.Query().Get(schema.RefreshTokenParam)
	if token == "" {
		a.logger.Warning(2866, "refresh without token", logInfo)
		return badRequest("refresh token is required")
	}

	pair, err := a.data.Refresh(token)
	if err != nil {
		logInfo.Append(fields.NewField("refresh-result", "failed"), fields.NewField("error", err.Error()))
		a.logger.Warning(2867, "access token refresh failed", logInfo)
		return userver.JResponse{
			HTTPCode: http.StatusUnauthorized,
			JSONData: authFailure(errors.Is(err, data.ErrTokenExpired))}
	}

	logInfo.Append(fields.NewField("refresh-result", "success"))
	a.logger.Info(2868, "successful access token refresh", logInfo)
	return success(pair)
}

// @Summary Logout
// @Description Revoke a refresh token
// @Tags Authentication
// @Accept json
// @Param logout body schema.LogoutRequest true "Refresh token to revoke"
// @Success 204
// @Failure 401 {object} schema.APIError
// @Router /auth/logout [post]
func (a *API) postLogout(req *http.Request) userver.JResponse {
	var logoutRequest schema.LogoutRequest
	if err := decode(req, &logoutRequest); err != nil || logoutRequest.RefreshToken == "" {
		return badRequest("refresh token is required")
	}

	logInfo := fields.NewFields(fields.NewField("src_ip", userver.RemoteIP(req)))

	if err := a.data.Logout(logoutRequest.RefreshToken); err != nil {
		logInfo.AppendKV("error", err.Error())
		a.logger.Warning(2869, "logout failed", logInfo)
		if errors.Is(err, data.ErrInvalidToken) {
			return userver.JResponse{HTTPCode: http.StatusUnauthorized, JSONData: authFailure(false)}
		}
		return internalError()
	}
	return noContent()
}
