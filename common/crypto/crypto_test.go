/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package crypto

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := RandomBytes(KeySize)
	require.NoError(t, err)
	return key
}

func TestSealOpen(t *testing.T) {
	key := testKey(t)

	sealed, err := Seal(key, []byte("eyJhbGciOi.token"), []byte("access_token"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	require.Greater(t, len(raw), 12)

	plain, err := Open(key, sealed, []byte("access_token"))
	require.NoError(t, err)
	require.Equal(t, "eyJhbGciOi.token", string(plain))

	// Same plaintext seals differently each time
	again, err := Seal(key, []byte("eyJhbGciOi.token"), []byte("access_token"))
	require.NoError(t, err)
	require.NotEqual(t, sealed, again)
}

func TestOpenRejects(t *testing.T) {
	key := testKey(t)
	sealed, err := Seal(key, []byte("secret"), []byte("access_token"))
	require.NoError(t, err)

	_, err = Open(testKey(t), sealed, []byte("access_token"))
	require.ErrorIs(t, err, ErrCiphertext)

	_, err = Open(key, sealed, []byte("refresh_token"))
	require.ErrorIs(t, err, ErrCiphertext)

	_, err = Open(key, "not base64!", nil)
	require.ErrorIs(t, err, ErrCiphertext)

	_, err = Open(key, base64.StdEncoding.EncodeToString([]byte("short")), nil)
	require.ErrorIs(t, err, ErrCiphertext)

	_, err = Seal([]byte("short"), []byte("x"), nil)
	require.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	master := testKey(t)

	a, err := DeriveKey(master, "cardscan credentials")
	require.NoError(t, err)
	require.Len(t, a, KeySize)

	b, err := DeriveKey(master, "cardscan credentials")
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := DeriveKey(master, "something else")
	require.NoError(t, err)
	require.NotEqual(t, a, c)

	_, err = DeriveKey([]byte("short"), "x")
	require.Error(t, err)
}

func TestLoadOrCreateMasterKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "master.key")

	first, err := LoadOrCreateMasterKey(path)
	require.NoError(t, err)
	require.Len(t, first, KeySize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := LoadOrCreateMasterKey(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte("%%%"), 0600))
	_, err = LoadOrCreateMasterKey(path)
	require.Error(t, err)
}

func TestConcurrentMasterKeyCreation(t *testing.T) {
	const workers = 16
	dir := t.TempDir()
	path := filepath.Join(dir, "master.key")

	var wg sync.WaitGroup
	keys := make([][]byte, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys[i], errs[i] = LoadOrCreateMasterKey(path)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, keys[0], keys[i])
	}

	// Only the key itself is left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "master.key", entries[0].Name())
}
