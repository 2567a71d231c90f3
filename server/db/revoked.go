/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"time"

	"go.etcd.io/bbolt"
)

// RevokedToken records a token ID that must no longer be accepted. Entries
// are kept until the token would have expired anyway.
type RevokedToken struct {
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
	RevokedAt time.Time `json:"revoked_at"`
}

// Revoke adds a token ID to the revocation list
func (d *DB) Revoke(tokenID, subject string, expiresAt time.Time) error {
	return d.SetData(BucketRevoked, validateKey(tokenID), RevokedToken{
		Subject:   subject,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now().UTC(),
	})
}

// IsRevoked reports whether a token ID is on the revocation list. Lookup
// errors are reported as revoked.
func (d *DB) IsRevoked(tokenID string) bool {
	exists, err := d.KeyExists(BucketRevoked, validateKey(tokenID))
	if err != nil {
		d.logger.Errorf(2220, "revocation lookup failed: %s", err.Error())
		return true
	}
	return exists
}

// PruneRevoked removes entries whose token expired before now and returns
// the number removed
func (d *DB) PruneRevoked(now time.Time) (int, error) {
	count := 0
	err := d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketRevoked))
		if b == nil {
			return ErrNoBucket
		}

		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var r RevokedToken
			if err := deserialize(v, &r); err != nil || (!r.ExpiresAt.IsZero() && r.ExpiresAt.Before(now)) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err = b.Delete(k); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}
