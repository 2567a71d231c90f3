/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"time"
)

// PruneDB removes revocation entries for tokens that have expired.
// It is intended to run as a goroutine and therefore logs and handles
// its own errors.
func (d *Data) PruneDB() {
	startTime := time.Now()

	count, err := d.database.PruneRevoked(startTime)
	if err != nil {
		d.logger.Warningf(2311, "error pruning database: %s", err.Error())
		return
	}

	d.logger.Infof(2310, "Pruned %d revoked tokens in %.2f seconds", count, time.Since(startTime).Seconds())
}
