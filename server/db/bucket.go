//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package db

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// SetData serializes and stores data in a specified bucket using a given key
func (d *DB) SetData(bucketName string, key string, value any) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		return putData(tx, bucketName, key, value)
	})
}

// GetData retrieves and deserializes data from a specified bucket using a given key
func (d *DB) GetData(bucketName string, key string, result any) error {
	return d.db.View(func(tx *bbolt.Tx) error {
		return getData(tx, bucketName, key, result)
	})
}

// DeleteData deletes data from a specified bucket using a given key
func (d *DB) DeleteData(bucketName string, key string) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return ErrNoBucket
		}
		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("error deleting data %w", err)
		}
		return nil
	})
}

// KeyExists checks if a key exists in a specified bucket
func (d *DB) KeyExists(bucketName string, key string) (bool, error) {
	var exists bool
	err := d.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return ErrNoBucket
		}
		exists = bucket.Get([]byte(key)) != nil
		return nil
	})
	return exists, err
}

// ForEach iterates over all keys in the specified bucket and applies the given function
func (d *DB) ForEach(bucketName string, fn func(key, value []byte) error) error {
	return d.ForEachPrefix(bucketName, "", fn)
}

// ForEachPrefix iterates over the keys that start with prefix
func (d *DB) ForEachPrefix(bucketName string, prefix string, fn func(key, value []byte) error) error {
	return d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}
		p := []byte(prefix)
		c := b.Cursor()
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func putData(tx *bbolt.Tx, bucketName string, key string, value any) error {
	data, err := serialize(value)
	if err != nil {
		return fmt.Errorf("failed to serialize data: %w", err)
	}

	bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
	if err != nil {
		return fmt.Errorf("%s bucket not found: %w", bucketName, err)
	}

	if err = bucket.Put([]byte(key), data); err != nil {
		return fmt.Errorf("failed to store data in bucket: %w", err)
	}
	return nil
}

// getData returns ErrNotFound when the key does not exist. A nil result
// only checks for existence.
func getData(tx *bbolt.Tx, bucketName string, key string, result any) error {
	bucket := tx.Bucket([]byte(bucketName))
	if bucket == nil {
		return ErrNoBucket
	}

	data := bucket.Get([]byte(key))
	if data == nil {
		return ErrNotFound
	}

	if result != nil {
		if err := deserialize(data, result); err != nil {
			return fmt.Errorf("failed to deserialize data: %w", err)
		}
	}
	return nil
}

// serialize converts a struct into a byte slice
func serialize(v any) ([]byte, error) {
	return json.Marshal(v)
}

// deserialize converts the stored data into a struct
func deserialize(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
