//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package global

import "github.com/CardScan/CardScan/common"

const (
	Version        = common.Version
	Build          = common.Build
	Name           = "cardscan-server"
	LogName        = "cardscan-server"
	Description    = "CardScan Server"
	ConfigFileName = "cardscan-server.conf"
	DBFileName     = "cardscan.db"
	TokenLength    = 64 // Length of the JWT key prior to base-64 encoding
	PruneTicker    = 15 // minutes between revocation list pruning
)

var (
	UnixConfigFiles = []string{"/etc/" + ConfigFileName, "/usr/local/etc/" + ConfigFileName}
	Debug           = false
	ListenOverride  = ""
)
