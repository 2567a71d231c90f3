/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package userver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
)

type authKey struct{}

var defaultHeaders = Headers{
	{"Cache-Control", "no-cache, no-store, must-revalidate"},
	{"Pragma", "no-cache"},
	{"Expires", "0"},
}

// AuthDetails returns the value the route's AuthFunc returned for req
func AuthDetails(req *http.Request) any {
	return req.Context().Value(authKey{})
}

// ResponseWriterWrapper wraps a http.ResponseWriter to capture the status code
type ResponseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code
func (rw *ResponseWriterWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Wrapper wraps a http.Handler to add standard headers, logging, rate
// limiting, and optionally authentication
func (s *HServer) Wrapper(handlerName string, h http.Handler, authFunc AuthFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {

		startTime := time.Now()
		src := RemoteIP(req)

		// Set requested reply headers
		if s.DefaultHeaders {
			for _, header := range defaultHeaders {
				w.Header().Set(header.Key, header.Value)
			}
		}
		for _, header := range s.Headers {
			w.Header().Set(header.Key, header.Value)
		}

		// Wrap the ResponseWriter to capture the status code
		rw := &ResponseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		logFields := fields.NewFields(
			fields.NewField("src_ip", src),
			fields.NewField("method", req.Method),
			fields.NewField("uri", req.URL.Path), // query strings may carry tokens
			fields.NewField("handler", handlerName))

		if s.limiter != nil && !s.limiter.allow(src, startTime) {
			s.Logger.Warning(s.SEid+13, "rate limited", logFields)
			writeJSON(rw, http.StatusTooManyRequests,
				schema.NewAPIError(http.StatusTooManyRequests, schema.ErrCodeRateLimited, "too many requests"))
			return
		}

		if authFunc != nil {
			details, err := authFunc(src, req.Header.Get("Authorization"))
			if err != nil {
				logFields.AppendKV("error", err.Error())
				s.Logger.Warning(s.SEid+12, "authentication failure", logFields)

				// Impose a time penalty for failed authentication
				s.PenaltyBox()

				var apiErr *schema.APIError
				if !errors.As(err, &apiErr) {
					apiErr = schema.NewAPIError(http.StatusUnauthorized, schema.ErrCodeUnauthorized, "not authorized")
				}
				writeJSON(rw, http.StatusUnauthorized, apiErr)
				return
			}
			req = req.WithContext(context.WithValue(req.Context(), authKey{}, details))
		}

		if s.MaxBodyBytes > 0 && req.Body != nil {
			req.Body = http.MaxBytesReader(rw, req.Body, s.MaxBodyBytes)
		}

		ctx, cancel := context.WithTimeout(req.Context(), time.Duration(s.HandlerTimeout)*time.Second)
		defer cancel()
		req = req.WithContext(ctx)

		h.ServeHTTP(rw, req)

		logFields.Append(
			fields.NewField("code", rw.statusCode),
			fields.NewField("duration", fmt.Sprintf("%.4f", time.Since(startTime).Seconds())))

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logFields.AppendKV("timeout", "true")
		}

		s.Logger.Info(s.SEid+10, "HTTP", logFields)
	})
}
