/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package common

import (
	"strings"
	"unicode/utf8"
)

var lineBreaks = strings.NewReplacer("\r\n", " ⏎ ", "\n", " ⏎ ", "\r", " ⏎ ")

// SingleLine normalizes a string for logging. Line breaks become a visible
// marker and runs of whitespace collapse into single spaces.
func SingleLine(s string) string {
	if s == "" {
		return s
	}
	return strings.Join(strings.Fields(lineBreaks.Replace(strings.TrimSpace(s))), " ")
}

// Truncate shortens s to at most max runes, appending "..." when it cuts
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// LogSafe combines SingleLine and Truncate for response bodies and other
// untrusted text that ends up in log fields
func LogSafe(s string) string {
	return Truncate(SingleLine(s), 200)
}
