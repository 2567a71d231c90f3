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

// @Summary Current user
// @Description Returns the profile of the authenticated user
// @Security BearerAuth
// @Tags Users
// @Produce json
// @Success 200 {object} schema.User
// @Failure 401 {object} schema.APIError
// @Router /user/me [get]
func (a *API) getMe(req *http.Request) userver.JResponse {
	user, err := a.data.GetUser(GetAuthDetails(req).ID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return userver.Error(http.StatusNotFound, schema.ErrCodeUserNotFound, "user not found")
		}
		return internalError()
	}
	return success(user)
}

// @Summary Delete account
// @Description Deletes the authenticated user and all of their contacts
// @Security BearerAuth
// @Tags Users
// @Success 204
// @Failure 401 {object} schema.APIError
// @Router /user/me [delete]
func (a *API) deleteMe(req *http.Request) userver.JResponse {
	id := GetAuthDetails(req).ID
	logFields := fields.NewFields(
		fields.NewField("src_ip", userver.RemoteIP(req)),
		fields.NewField("id", id))

	if err := a.data.DeleteUser(id); err != nil {
		logFields.AppendKV("error", err.Error())
		a.logger.Error(2871, "account deletion failed", logFields)
		if errors.Is(err, data.ErrUserNotFound) {
			return userver.Error(http.StatusNotFound, schema.ErrCodeUserNotFound, "user not found")
		}
		return internalError()
	}

	a.logger.Info(2872, "account deleted", logFields)
	return noContent()
}
