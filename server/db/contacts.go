/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"bytes"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/CardScan/CardScan/common/schema"
)

// SetContact stores a contact owned by userID
func (d *DB) SetContact(userID string, contact schema.Contact) error {
	if validateKey(contact.ID) == "" {
		return errors.New("contact ID is required")
	}
	return d.SetData(BucketContacts, contactKey(userID, contact.ID), contact)
}

// GetContact retrieves one contact owned by userID
func (d *DB) GetContact(userID, contactID string) (schema.Contact, error) {
	var contact schema.Contact
	err := d.GetData(BucketContacts, contactKey(userID, contactID), &contact)
	return contact, err
}

// ListContacts returns the contacts owned by userID in key order
func (d *DB) ListContacts(userID string) ([]schema.Contact, error) {
	list := make([]schema.Contact, 0)
	err := d.ForEachPrefix(BucketContacts, contactPrefix(userID), func(_, value []byte) error {
		var c schema.Contact
		if err := deserialize(value, &c); err != nil {
			return fmt.Errorf("failed to deserialize contact: %w", err)
		}
		list = append(list, c)
		return nil
	})
	return list, err
}

// ReplaceContact overwrites an existing contact, keeping its creation time.
// ErrNotFound is returned when the user has no contact with that ID.
func (d *DB) ReplaceContact(userID string, contact schema.Contact) (schema.Contact, error) {
	key := contactKey(userID, contact.ID)
	err := d.db.Update(func(tx *bbolt.Tx) error {
		var existing schema.Contact
		if err := getData(tx, BucketContacts, key, &existing); err != nil {
			return err
		}
		contact.CreatedAt = existing.CreatedAt
		return putData(tx, BucketContacts, key, contact)
	})
	return contact, err
}

// DeleteContact removes one contact. ErrNotFound is returned when the user
// has no contact with that ID.
func (d *DB) DeleteContact(userID, contactID string) error {
	key := []byte(contactKey(userID, contactID))
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketContacts))
		if b == nil {
			return ErrNoBucket
		}
		if b.Get(key) == nil {
			return ErrNotFound
		}
		return b.Delete(key)
	})
}

// deleteContacts removes every contact of userID within tx
func deleteContacts(tx *bbolt.Tx, userID string) error {
	b := tx.Bucket([]byte(BucketContacts))
	if b == nil {
		return ErrNoBucket
	}

	// Collect first, deleting while iterating skips keys
	p := []byte(contactPrefix(userID))
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
