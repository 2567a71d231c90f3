//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package userver

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// RemoteIP returns the remote IP address of the client, excluding the port number.
func RemoteIP(req *http.Request) string {

	// Check for the X-Forwarded-For header first
	forwarded := req.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// The X-Forwarded-For header can contain multiple IPs, take the first one
		ip := strings.Split(forwarded, ",")[0]
		return strings.TrimSpace(ip)
	}

	// Fallback to using the remote address
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr // Return the full address if splitting fails
	}
	return ip
}

// GetParam retrieves a path variable from the request URL
func GetParam(r *http.Request, param string) string {
	return mux.Vars(r)[param]
}
