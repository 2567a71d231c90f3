/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import "github.com/CardScan/CardScan/common"

//goland:noinspection GoUnusedConst
const (
	Version         = common.Version
	Build           = common.Build
	Name            = "cardscan"
	Description     = "CardScan CLI"
	LongDescription = "CardScan command line interface: scan business cards and manage contacts"
	ConfigDirName   = ".cardscan"
	ConfigFileName  = "config.json"
	EnvFileName     = ".env"
	LogName         = "cardscan"
)

// Environment variables, also read from ~/.cardscan/.env
const (
	EnvServer   = "CARDSCAN_SERVER"
	EnvEmail    = "CARDSCAN_EMAIL"
	EnvPassword = "CARDSCAN_PASSWORD"
)

// Set by global flags on the root command
var (
	ServerURL string
	ConfigDir string
	Debug     bool
)
