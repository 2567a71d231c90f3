//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package api

import (
	"net/http"
	"time"

	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/common/userver"
)

// @Summary Ping the server
// @Description Pinging the server tests authentication and communication
// @Security BearerAuth
// @Produce json
// @Tags Testing
// @Success 200 {object} schema.PingResponse
// @Router /ping [get]
func (a *API) getPing(req *http.Request) userver.JResponse {
	authDetails := GetAuthDetails(req)

	a.logger.Info(2891, "ping", fields.NewFields(
		fields.NewField("src_ip", userver.RemoteIP(req)),
		fields.NewField("id", authDetails.ID)))

	return success(schema.PingResponse{
		Status: "pong",
		User:   authDetails.ID,
		Time:   time.Now().UTC()})
}
