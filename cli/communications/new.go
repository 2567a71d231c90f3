/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package communications sends JSON requests to the CardScan backend. The
// supplied client is normally backed by a pipeline.Pipeline, which takes
// care of bearer tokens and refreshing them.
package communications

import (
	"net/http"
	"strings"

	"github.com/CardScan/CardScan/cli/global"
)

// Ensure that Communications implements the global.Comms interface
var _ global.Comms = &Communications{}

type Communications struct {
	client    *http.Client
	serverURL string
}

// New returns a Communications object that sends requests to serverURL using client
func New(client *http.Client, serverURL string) *Communications {
	if client == nil {
		client = http.DefaultClient
	}
	return &Communications{
		client:    client,
		serverURL: strings.TrimRight(serverURL, "/"),
	}
}
