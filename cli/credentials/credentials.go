/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package credentials persists the access and refresh tokens in a bbolt
// file. Each value is sealed with AES-256-GCM under a key derived from a
// per-user master key, and bound to its own key name.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/CardScan/CardScan/common/crypto"
	"github.com/CardScan/CardScan/common/fields"
	"github.com/CardScan/CardScan/common/interfaces"
	"github.com/CardScan/CardScan/common/null"
)

var _ interfaces.CredentialStore = (*Store)(nil)

const (
	DBFile        = "credentials.db"
	MasterKeyFile = "master.key"
	bucketName    = "Credentials"
	keyPurpose    = "cardscan credentials"
)

var ErrClosed = errors.New("credential store is closed")

var tokenKeys = []string{interfaces.KeyAccessToken, interfaces.KeyRefreshToken}

type Store struct {
	db     *bbolt.DB
	key    []byte
	logger interfaces.Logger
}

// WithLogger sets the logger used for store events
func WithLogger(logger interfaces.Logger) func(*Store) error {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// Open opens or creates the credential database in dir. Only one process
// can hold it open at a time; others wait up to a second and then fail.
func Open(dir string, options ...func(*Store) error) (*Store, error) {
	s := &Store{logger: null.Logger()}
	for _, op := range options {
		if err := op(s); err != nil {
			return nil, err
		}
	}

	master, err := crypto.LoadOrCreateMasterKey(filepath.Join(dir, MasterKeyFile))
	if err != nil {
		return nil, err
	}
	if s.key, err = crypto.DeriveKey(master, keyPurpose); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, DBFile)
	s.db, err = bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store %s: %w", path, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists([]byte(bucketName))
		return createErr
	})
	if err != nil {
		_ = s.db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}

	s.logger.Debug(1101, "credential store opened", fields.NewFields(fields.NewField("path", path)))
	return s, nil
}

// Close releases the database file lock
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Get returns the decrypted value for key, or "" when nothing is stored.
// A value that cannot be decrypted is an error.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.db == nil {
		return "", ErrClosed
	}

	var sealed string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucketName)
		}
		if v := b.Get([]byte(key)); v != nil {
			sealed = string(v)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if sealed == "" {
		return "", nil
	}

	plain, err := crypto.Open(s.key, sealed, []byte(key))
	if err != nil {
		return "", fmt.Errorf("unable to decrypt %s: %w", key, err)
	}
	return string(plain), nil
}

// Set seals and writes both tokens in a single transaction
func (s *Store) Set(ctx context.Context, accessToken, refreshToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil {
		return ErrClosed
	}

	values := map[string]string{
		interfaces.KeyAccessToken:  accessToken,
		interfaces.KeyRefreshToken: refreshToken,
	}

	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		if v == "" {
			continue
		}
		text, err := crypto.Seal(s.key, []byte(v), []byte(k))
		if err != nil {
			return fmt.Errorf("unable to encrypt %s: %w", k, err)
		}
		sealed[k] = []byte(text)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucketName)
		}
		for _, k := range tokenKeys {
			var err error
			if v, ok := sealed[k]; ok {
				err = b.Put([]byte(k), v)
			} else {
				err = b.Delete([]byte(k))
			}
			if err != nil {
				return fmt.Errorf("failed to store %s: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug(1102, "credentials saved", nil)
	return nil
}

// Clear deletes both tokens in a single transaction
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil {
		return ErrClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		for _, k := range tokenKeys {
			if err := b.Delete([]byte(k)); err != nil {
				return fmt.Errorf("failed to delete %s: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug(1103, "credentials cleared", nil)
	return nil
}
