/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"regexp"
	"strings"
)

var invalidKeyChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// validateKey removes any invalid characters (anything other than a-z, A-Z, 0-9, -) from the input string
func validateKey(key string) string {
	return invalidKeyChars.ReplaceAllString(key, "")
}

// emailKey is the index key for an email address
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// contactKey returns "userID:contactID" with both parts constrained to the
// key character set so the separator stays unambiguous
func contactKey(userID, contactID string) string {
	return contactPrefix(userID) + validateKey(contactID)
}

// contactPrefix returns the prefix shared by all contacts of a user
func contactPrefix(userID string) string {
	return validateKey(userID) + ":"
}
