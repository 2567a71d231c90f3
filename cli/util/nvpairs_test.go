//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNVPairs(t *testing.T) {
	p, err := NewNVPairs([]string{"Server_URL=http://a=b", "debug="})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"server_url": "http://a=b", "debug": ""}, p.ToMap())

	_, err = NewNVPairs([]string{"novalue"})
	require.Error(t, err)

	_, err = NewNVPairs([]string{"=x"})
	require.Error(t, err)
}
