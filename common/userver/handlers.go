/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package userver

import (
	"net/http"
	"os"

	"github.com/CardScan/CardScan/common/schema"
)

// HandlerHealth implements a health check for load balancers, etc.
func (s *HServer) HandlerHealth(_ *http.Request) JResponse {
	// The presence of DownFile indicates the server is going down
	if s.DownFile != "" {
		if _, err := os.Stat(s.DownFile); err == nil {
			return JResponse{
				HTTPCode: http.StatusServiceUnavailable,
				JSONData: HealthResponse{Status: "down", Details: "server is shutting down"}}
		}
	}
	return JResponse{
		HTTPCode: http.StatusOK,
		JSONData: HealthResponse{Status: "ok"}}
}

// Error returns a JResponse carrying an APIError
func Error(code int, errCode, message string) JResponse {
	return JResponse{
		HTTPCode: code,
		JSONData: schema.NewAPIError(code, errCode, message)}
}

func (s *HServer) Handler401(_ *http.Request) JResponse {
	s.PenaltyBox()
	return Error(http.StatusUnauthorized, schema.ErrCodeUnauthorized, "not authorized")
}

func (s *HServer) Handler404(_ *http.Request) JResponse {
	s.PenaltyBox()
	return Error(http.StatusNotFound, schema.ErrCodeNotFound, "object does not exist")
}

func (s *HServer) Handler405(_ *http.Request) JResponse {
	s.PenaltyBox()
	return Error(http.StatusMethodNotAllowed, schema.ErrCodeNotAllowed, "method not allowed")
}
