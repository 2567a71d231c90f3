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

// @Summary Forgot password
// @Description Email a password reset code. The response is the same whether or not the address is registered.
// @Tags Authentication
// @Accept json
// @Param request body schema.ForgotPasswordRequest true "Email address"
// @Success 202
// @Failure 400 {object} schema.APIError
// @Router /auth/forgot-password [post]
func (a *API) postForgotPassword(req *http.Request) userver.JResponse {
	var forgotRequest schema.ForgotPasswordRequest
	if err := decode(req, &forgotRequest); err != nil {
		return badRequest("invalid request")
	}

	logInfo := fields.NewFields(fields.NewField("src_ip", userver.RemoteIP(req)))

	err := a.data.ForgotPassword(req.Context(), forgotRequest)
	if errors.Is(err, schema.ErrEmailRequired) {
		return badRequest(err.Error())
	}
	if err != nil {
		logInfo.AppendKV("error", err.Error())
		a.logger.Error(2870, "password reset email failed", logInfo)
	}
	return userver.JResponse{HTTPCode: http.StatusAccepted}
}

// @Summary Reset password
// @Description Set a new password using the emailed code
// @Tags Authentication
// @Accept json
// @Param request body schema.ResetPasswordRequest true "Code and new password"
// @Success 204
// @Failure 400 {object} schema.APIError
// @Failure 401 {object} schema.APIError "Invalid, used, or expired code"
// @Router /auth/reset-password [post]
func (a *API) postResetPassword(req *http.Request) userver.JResponse {
	var resetRequest schema.ResetPasswordRequest
	if err := decode(req, &resetRequest); err != nil {
		return badRequest("invalid request")
	}

	logInfo := fields.NewFields(fields.NewField("src_ip", userver.RemoteIP(req)))

	if err := a.data.ResetPassword(resetRequest); err != nil {
		logInfo.AppendKV("error", err.Error())
		a.logger.Warning(2871, "password reset failed", logInfo)
		return codeFailure(err)
	}

	a.logger.Info(2872, "password reset", logInfo)
	return noContent()
}

// @Summary Verify email
// @Description Confirm the account's email address using the emailed code
// @Tags Authentication
// @Accept json
// @Param request body schema.VerifyEmailRequest true "Code"
// @Success 204
// @Failure 400 {object} schema.APIError
// @Failure 401 {object} schema.APIError "Invalid or expired code"
// @Router /auth/verify-email [post]
func (a *API) postVerifyEmail(req *http.Request) userver.JResponse {
	var verifyRequest schema.VerifyEmailRequest
	if err := decode(req, &verifyRequest); err != nil {
		return badRequest("invalid request")
	}

	if err := a.data.VerifyEmail(verifyRequest); err != nil {
		a.logger.Warning(2873, "email verification failed", fields.NewFields(
			fields.NewField("src_ip", userver.RemoteIP(req)),
			fields.NewField("error", err.Error())))
		return codeFailure(err)
	}
	return noContent()
}

// @Summary Send verification email
// @Security BearerAuth
// @Tags User
// @Success 202
// @Failure 409 {object} schema.APIError "Already verified"
// @Router /user/send-verification [post]
func (a *API) postSendVerification(req *http.Request) userver.JResponse {
	id := GetAuthDetails(req).ID

	err := a.data.SendVerification(req.Context(), id)
	switch {
	case err == nil:
		return userver.JResponse{HTTPCode: http.StatusAccepted}
	case errors.Is(err, data.ErrAlreadyVerified):
		return userver.Error(http.StatusConflict, schema.ErrCodeVerified, err.Error())
	default:
		a.logger.Errorf(2874, "error sending verification email: %s", err.Error())
		return internalError()
	}
}

// codeFailure maps errors from checking an emailed code to a response
func codeFailure(err error) userver.JResponse {
	switch {
	case errors.Is(err, schema.ErrTokenRequired), errors.Is(err, schema.ErrPasswordTooShort):
		return badRequest(err.Error())
	case errors.Is(err, data.ErrInvalidToken), errors.Is(err, data.ErrTokenRevoked):
		return userver.JResponse{HTTPCode: http.StatusUnauthorized, JSONData: authFailure(false)}
	case errors.Is(err, data.ErrTokenExpired):
		return userver.JResponse{HTTPCode: http.StatusUnauthorized, JSONData: authFailure(true)}
	default:
		return internalError()
	}
}
