//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package util

import (
	"fmt"
	"strings"
)

type NVPairs struct {
	Pairs map[string]string
}

// NewNVPairs parses a list of key=value strings. Keys are lower-cased and
// an argument without "=" is an error.
func NewNVPairs(args []string) (*NVPairs, error) {
	r := NVPairs{
		Pairs: make(map[string]string),
	}

	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		r.Pairs[strings.ToLower(strings.TrimSpace(parts[0]))] = parts[1]
	}

	return &r, nil
}

// ToMap is a helper function to convert NVPairs to a map[string]string
func (p *NVPairs) ToMap() map[string]string {
	return p.Pairs
}
