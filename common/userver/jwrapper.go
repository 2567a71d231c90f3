/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package userver

import (
	"encoding/json"
	"net/http"

	"github.com/CardScan/CardScan/common/fields"
)

// JWrapper wraps a JHandler to a standard http.Handler.
// It marshals the JSON data and logs any errors.
// This allows APIs to avoid providing http.Handler directly.
func (s *HServer) JWrapper(name string, h JHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respData := h(req)

		if err := writeJSON(w, respData.HTTPCode, respData.JSONData); err != nil {
			s.Logger.Error(s.SEid+11,
				"Error writing response",
				fields.NewFields(
					fields.NewField("error", err.Error()),
					fields.NewField("src_ip", RemoteIP(req)),
					fields.NewField("method", req.Method),
					fields.NewField("uri", req.URL.Path),
					fields.NewField("handler", name)))
		}
	})
}

// writeJSON sends data with the given status. A nil data sends no body.
func writeJSON(w http.ResponseWriter, code int, data any) error {
	if data == nil {
		w.WriteHeader(code)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
