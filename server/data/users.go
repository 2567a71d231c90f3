/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"github.com/CardScan/CardScan/common/schema"
)

// GetUser returns the profile of a user
func (d *Data) GetUser(id string) (schema.User, error) {
	record, err := d.database.GetUser(id)
	if err != nil {
		return schema.User{}, err
	}
	return record.User(), nil
}

// DeleteUser removes the account and its contacts. Outstanding tokens stop
// working because validation requires the subject to exist.
func (d *Data) DeleteUser(id string) error {
	return d.database.DeleteUser(id)
}
