/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"github.com/CardScan/CardScan/common/interfaces"
)

const (
	ConfigServerSet       = "server_config"
	ConfigLogFile         = "log_file"
	ConfigLogStdout       = "log_stdout"
	ConfigLogRetention    = "log_retention"
	ConfigListen          = "listen"
	ConfigDataPath        = "data_path"
	ConfigHTTPTimeout     = "http_timeout"
	ConfigHTTPIdleTimeout = "http_idle_timeout"
	ConfigHandlerTimeout  = "handler_timeout"
	ConfigMaxConcurrent   = "max_concurrent"
	ConfigMaxBodyKB       = "max_body_kb"
	ConfigPenaltyBoxMin   = "penalty_box_min"
	ConfigPenaltyBoxMax   = "penalty_box_max"
	ConfigRateLimit       = "rate_limit"
	ConfigRateBurst       = "rate_burst"
	ConfigAccessTokenLife = "access_token_life"
	ConfigRefreshLife     = "refresh_token_life"
	ConfigTLSCertFile     = "tls_cert_file"
	ConfigTLSKeyFile      = "tls_key_file"
	ConfigResetLife       = "reset_token_life"
	ConfigVerifyLife      = "verify_token_life"
	ConfigMailFromName    = "mail_from_name"
	ConfigMailFromAddress = "mail_from_address"
	ConfigSendGridHost    = "sendgrid_host"

	ConfigPrivate     = "server_private"
	ConfigJWTKey      = "jwt_key"
	ConfigSendGridKey = "sendgrid_api_key"
)

// setDefaults makes sure the sets exist, sets default values, and constraints
func setDefaults(c interfaces.Config) (interfaces.Parameters, interfaces.Parameters) {

	// Server configuration set
	sc := c.NewSet(ConfigServerSet)
	sc.SetConstraint(ConfigLogFile, 0, 0, "")              // no log file by default
	sc.SetConstraint(ConfigLogStdout, 0, 0, true)          // by default log to stdout
	sc.SetConstraint(ConfigLogRetention, 1, 0, 30)         // days
	sc.SetConstraint(ConfigListen, 0, 0, "127.0.0.1:8080") // listen address
	sc.SetConstraint(ConfigDataPath, 0, 0, "")             // database directory
	sc.SetConstraint(ConfigHTTPTimeout, 1, 0, 30)          // seconds
	sc.SetConstraint(ConfigHTTPIdleTimeout, 1, 0, 30)      // seconds
	sc.SetConstraint(ConfigHandlerTimeout, 1, 0, 30)       // seconds
	sc.SetConstraint(ConfigMaxConcurrent, 0, 0, 100)       // concurrent connections, others wait
	sc.SetConstraint(ConfigMaxBodyKB, 1, 0, 64)            // request body limit
	sc.SetConstraint(ConfigPenaltyBoxMin, 0, 0, 500)       // milliseconds
	sc.SetConstraint(ConfigPenaltyBoxMax, 0, 0, 2000)      // milliseconds
	sc.SetConstraint(ConfigRateLimit, 0, 0, 600)           // requests per minute per source IP, 0 disables
	sc.SetConstraint(ConfigRateBurst, 1, 0, 60)            // requests
	sc.SetConstraint(ConfigAccessTokenLife, 1, 0, 15)      // minutes
	sc.SetConstraint(ConfigRefreshLife, 1, 0, 43200)       // minutes
	sc.SetConstraint(ConfigTLSCertFile, 0, 0, "")          // TLS is off unless both files are set
	sc.SetConstraint(ConfigTLSKeyFile, 0, 0, "")
	sc.SetConstraint(ConfigResetLife, 1, 0, 30)                            // minutes
	sc.SetConstraint(ConfigVerifyLife, 1, 0, 1440)                         // minutes
	sc.SetConstraint(ConfigMailFromName, 0, 0, "CardScan")                 // sender display name
	sc.SetConstraint(ConfigMailFromAddress, 0, 0, "")                      // email is logged, not sent, unless set
	sc.SetConstraint(ConfigSendGridHost, 0, 0, "https://api.sendgrid.com") // SendGrid API base URL

	// Protected configuration items
	sp := c.NewSet(ConfigPrivate)
	sp.SetConstraint(ConfigJWTKey, 0, 0, "")
	sp.SetConstraint(ConfigSendGridKey, 0, 0, "") // email is logged, not sent, unless set

	return sc, sp
}
