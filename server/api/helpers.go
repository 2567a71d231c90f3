/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/userver"
)

// decode reads a JSON request body into v
func decode(req *http.Request, v any) error {
	if req.Body == nil {
		return errors.New("request body is required")
	}
	return json.NewDecoder(req.Body).Decode(v)
}

func success(data any) userver.JResponse {
	return userver.JResponse{HTTPCode: http.StatusOK, JSONData: data}
}

func created(data any) userver.JResponse {
	return userver.JResponse{HTTPCode: http.StatusCreated, JSONData: data}
}

func noContent() userver.JResponse {
	return userver.JResponse{HTTPCode: http.StatusNoContent}
}

func badRequest(message string) userver.JResponse {
	return userver.Error(http.StatusBadRequest, schema.ErrCodeBadRequest, message)
}

func internalError() userver.JResponse {
	return userver.Error(http.StatusInternalServerError, schema.ErrCodeInternal, "internal server error")
}
