/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"

	"github.com/CardScan/CardScan/common/crypto"
)

// scrypt cost parameters for new hashes. Stored hashes carry their own.
const (
	hashN       = 32768
	hashR       = 8
	hashP       = 1
	hashKeyLen  = 32
	hashSaltLen = 16
	hashPrefix  = "scrypt"
)

var ErrHashFormat = errors.New("invalid hash format")

// GenerateHash returns "scrypt$N$r$p$salt$hash" for password
func GenerateHash(password string) (string, error) {
	salt, err := crypto.RandomBytes(hashSaltLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash, err := scrypt.Key([]byte(password), salt, hashN, hashR, hashP, hashKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash: %w", err)
	}

	return strings.Join([]string{
		hashPrefix,
		strconv.Itoa(hashN),
		strconv.Itoa(hashR),
		strconv.Itoa(hashP),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	}, "$"), nil
}

// VerifyHash verifies the given password against the stored hash
func VerifyHash(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != hashPrefix {
		return false, ErrHashFormat
	}

	var cost [3]int
	for i := range cost {
		v, err := strconv.Atoi(parts[i+1])
		if err != nil || v < 1 {
			return false, ErrHashFormat
		}
		cost[i] = v
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	comparisonHash, err := scrypt.Key([]byte(password), salt, cost[0], cost[1], cost[2], len(hash))
	if err != nil {
		return false, fmt.Errorf("failed to generate comparison hash: %w", err)
	}

	return subtle.ConstantTimeCompare(hash, comparisonHash) == 1, nil
}
