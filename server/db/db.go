/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package db stores users, contacts, and revoked tokens in a bbolt database
package db

import (
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/null"
)

// A separate package with a struct are used for looser coupling with the database

type DB struct {
	db     *bbolt.DB
	logger interfaces.Logger
}

const BucketUsers = "Users"
const BucketUserEmails = "UserEmails"
const BucketContacts = "Contacts"
const BucketRevoked = "Revoked"

var bucketList = []string{BucketUsers, BucketUserEmails, BucketContacts, BucketRevoked}

//goland:noinspection ALL
var (
	ErrNotFound     = errors.New("key not found")
	ErrNoBucket     = errors.New("bucket not found")
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrBadPassword  = errors.New("invalid password")
)

// Open opens (or creates) a Bolt DB at the specified path and creates
// any missing buckets
func Open(filePath string, logger interfaces.Logger) (*DB, error) {
	if logger == nil {
		logger = null.Logger()
	}

	logger.Infof(2201, "Opening database: %s", filePath)

	// The Timeout option allows Bolt to wait if the file is locked by another process
	db, err := bbolt.Open(filePath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucketName := range bucketList {
			_, createErr := tx.CreateBucketIfNotExists([]byte(bucketName))
			if createErr != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucketName, createErr)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, logger: logger}, nil
}

// Close the database, ignore any errors
func (d *DB) Close() {
	_ = d.db.Close()
}
