/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/CardScan/CardScan/common/schema"
)

// UserRecord is stored in BucketUsers under the user ID. BucketUserEmails
// maps the lower-cased email address to the same ID.
type UserRecord struct {
	ID                string    `json:"id"`
	DisplayName       string    `json:"display_name"`
	Email             string    `json:"email"`
	EmailVerified     bool      `json:"email_verified"`
	PhoneNumber       string    `json:"phone_number"`
	HashedPass        string    `json:"hashed_pass"`
	PasswordChangedAt time.Time `json:"password_changed_at"`
	TokenVersion      int       `json:"token_version"`
	CreatedAt         time.Time `json:"created_at"`
	FailCount         int       `json:"fail_count"`
	LastAuth          time.Time `json:"last_auth"`
	LastFail          time.Time `json:"last_fail"`
}

// User returns the public profile
func (u UserRecord) User() schema.User {
	return schema.User{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		PhoneNumber:   u.PhoneNumber,
		CreatedAt:     u.CreatedAt,
	}
}

// CreateUser hashes password and stores the user. The email check and both
// writes happen in one transaction.
func (d *DB) CreateUser(user UserRecord, password string) (UserRecord, error) {
	hashedPass, err := GenerateHash(password)
	if err != nil {
		return UserRecord{}, fmt.Errorf("hash error: %w", err)
	}

	user.ID = validateKey(user.ID)
	user.Email = emailKey(user.Email)
	user.HashedPass = hashedPass
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.ID == "" || user.Email == "" {
		return UserRecord{}, errors.New("user ID and email are required")
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket([]byte(BucketUserEmails))
		if emails == nil {
			return ErrNoBucket
		}
		if emails.Get([]byte(user.Email)) != nil {
			return ErrUserExists
		}
		if err := emails.Put([]byte(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return putData(tx, BucketUsers, user.ID, user)
	})
	if err != nil {
		return UserRecord{}, err
	}

	d.logger.Infof(2210, "user created: %s", user.ID)
	return user, nil
}

// GetUser retrieves a user by ID
func (d *DB) GetUser(id string) (UserRecord, error) {
	var user UserRecord
	err := d.GetData(BucketUsers, validateKey(id), &user)
	if errors.Is(err, ErrNotFound) {
		return UserRecord{}, ErrUserNotFound
	}
	return user, err
}

// GetUserByEmail retrieves a user through the email index
func (d *DB) GetUserByEmail(email string) (UserRecord, error) {
	var user UserRecord
	err := d.db.View(func(tx *bbolt.Tx) error {
		emails := tx.Bucket([]byte(BucketUserEmails))
		if emails == nil {
			return ErrNoBucket
		}
		id := emails.Get([]byte(emailKey(email)))
		if id == nil {
			return ErrUserNotFound
		}
		return getData(tx, BucketUsers, string(id), &user)
	})
	if errors.Is(err, ErrNotFound) {
		return UserRecord{}, ErrUserNotFound
	}
	return user, err
}

// CheckPassword verifies the password for email and returns the user.
// It also updates LastAuth and FailCount depending on success or failure.
func (d *DB) CheckPassword(email, password string) (UserRecord, error) {
	user, err := d.GetUserByEmail(email)
	if err != nil {
		return UserRecord{}, err
	}

	ok, err := VerifyHash(password, user.HashedPass)
	if err != nil {
		return UserRecord{}, fmt.Errorf("VerifyHash error: %w", err)
	}

	if ok {
		user.FailCount = 0
		user.LastAuth = time.Now().UTC()

		// If this fails something is wrong - fail authorization
		if err = d.SetData(BucketUsers, user.ID, user); err != nil {
			return UserRecord{}, err
		}
		return user, nil
	}

	user.FailCount++
	user.LastFail = time.Now().UTC()
	if err = d.SetData(BucketUsers, user.ID, user); err != nil {
		return UserRecord{}, err
	}
	return UserRecord{}, ErrBadPassword
}

// SetPassword replaces the password hash, records the time of the change,
// and bumps TokenVersion so that tokens carrying the old version are void
func (d *DB) SetPassword(id, password string) error {
	hashedPass, err := GenerateHash(password)
	if err != nil {
		return fmt.Errorf("hash error: %w", err)
	}
	return d.updateUser(id, func(user *UserRecord) {
		user.HashedPass = hashedPass
		user.PasswordChangedAt = time.Now().UTC()
		user.TokenVersion++
		user.FailCount = 0
	})
}

// SetEmailVerified marks the user's email address as confirmed
func (d *DB) SetEmailVerified(id string) error {
	return d.updateUser(id, func(user *UserRecord) {
		user.EmailVerified = true
	})
}

// updateUser applies fn to the stored user within one transaction
func (d *DB) updateUser(id string, fn func(user *UserRecord)) error {
	id = validateKey(id)
	return d.db.Update(func(tx *bbolt.Tx) error {
		var user UserRecord
		if err := getData(tx, BucketUsers, id, &user); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		fn(&user)
		return putData(tx, BucketUsers, id, user)
	})
}

// DeleteUser removes the user, the email index entry, and all of the
// user's contacts in a single transaction
func (d *DB) DeleteUser(id string) error {
	id = validateKey(id)
	err := d.db.Update(func(tx *bbolt.Tx) error {
		var user UserRecord
		if err := getData(tx, BucketUsers, id, &user); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Bucket([]byte(BucketUserEmails)).Delete([]byte(user.Email)); err != nil {
			return err
		}
		if err := tx.Bucket([]byte(BucketUsers)).Delete([]byte(id)); err != nil {
			return err
		}
		return deleteContacts(tx, id)
	})
	if err != nil {
		return err
	}

	d.logger.Infof(2211, "user deleted: %s", id)
	return nil
}
