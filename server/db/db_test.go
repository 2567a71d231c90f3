/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CardScan/CardScan/common/schema"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func createTestUser(t *testing.T, d *DB, id, email string) UserRecord {
	t.Helper()
	u, err := d.CreateUser(UserRecord{ID: id, DisplayName: "Test User", Email: email}, "secret123")
	require.NoError(t, err)
	return u
}

func TestHash(t *testing.T) {
	h, err := GenerateHash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "scrypt$32768$8$1$"))

	ok, err := VerifyHash("correct horse", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyHash("wrong horse", h)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyHash("x", "salt$hash")
	assert.ErrorIs(t, err, ErrHashFormat)
}

func TestCreateAndGetUser(t *testing.T) {
	d := openTest(t)

	u, err := d.CreateUser(UserRecord{ID: "U-1", DisplayName: "Ada", Email: " Ada@Example.com "}, "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := d.GetUser("U-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.DisplayName)

	got, err = d.GetUserByEmail("ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "U-1", got.ID)
	assert.Equal(t, "Ada", got.User().DisplayName)

	_, err = d.CreateUser(UserRecord{ID: "U-2", Email: "ada@example.com"}, "secret123")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = d.GetUser("U-404")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = d.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckPassword(t *testing.T) {
	d := openTest(t)
	createTestUser(t, d, "U-1", "ada@example.com")

	_, err := d.CheckPassword("ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrBadPassword)

	stored, err := d.GetUser("U-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.FailCount)

	u, err := d.CheckPassword("ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "U-1", u.ID)
	assert.Equal(t, 0, u.FailCount)

	_, err = d.CheckPassword("bob@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetPasswordAndVerified(t *testing.T) {
	d := openTest(t)
	u := createTestUser(t, d, "U-1", "ada@example.com")
	assert.False(t, u.EmailVerified)
	assert.True(t, u.PasswordChangedAt.IsZero())

	require.NoError(t, d.SetPassword("U-1", "new-secret"))
	_, err := d.CheckPassword("ada@example.com", "secret123")
	assert.ErrorIs(t, err, ErrBadPassword)
	u, err = d.CheckPassword("ada@example.com", "new-secret")
	require.NoError(t, err)
	assert.False(t, u.PasswordChangedAt.IsZero())
	assert.Equal(t, 1, u.TokenVersion)

	require.NoError(t, d.SetEmailVerified("U-1"))
	u, err = d.GetUser("U-1")
	require.NoError(t, err)
	assert.True(t, u.User().EmailVerified)

	assert.ErrorIs(t, d.SetPassword("U-9", "new-secret"), ErrUserNotFound)
	assert.ErrorIs(t, d.SetEmailVerified("U-9"), ErrUserNotFound)
}

func TestContacts(t *testing.T) {
	d := openTest(t)

	require.NoError(t, d.SetContact("U-1", schema.Contact{ID: "C-2", Name: "Bob"}))
	require.NoError(t, d.SetContact("U-1", schema.Contact{ID: "C-1", Name: "Alice"}))
	require.NoError(t, d.SetContact("U-10", schema.Contact{ID: "C-3", Name: "Mallory"}))

	list, err := d.ListContacts("U-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)

	// Another user's contact is not reachable
	_, err = d.GetContact("U-1", "C-3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, d.DeleteContact("U-1", "C-3"), ErrNotFound)

	require.NoError(t, d.DeleteContact("U-1", "C-1"))
	list, err = d.ListContacts("U-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := d.ListContacts("U-2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestReplaceContact(t *testing.T) {
	d := openTest(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, d.SetContact("U-1", schema.Contact{ID: "C-1", Name: "Alice", CreatedAt: created}))

	c, err := d.ReplaceContact("U-1", schema.Contact{ID: "C-1", Name: "Alice Smith"})
	require.NoError(t, err)
	assert.Equal(t, created, c.CreatedAt)

	got, err := d.GetContact("U-1", "C-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.True(t, created.Equal(got.CreatedAt))

	// Replacing never creates, nor reaches another user's contact
	_, err = d.ReplaceContact("U-2", schema.Contact{ID: "C-1", Name: "Mallory"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.ReplaceContact("U-1", schema.Contact{ID: "C-9", Name: "Nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserRemovesContacts(t *testing.T) {
	d := openTest(t)
	createTestUser(t, d, "U-1", "ada@example.com")
	require.NoError(t, d.SetContact("U-1", schema.Contact{ID: "C-1", Name: "Alice"}))
	require.NoError(t, d.SetContact("U-1", schema.Contact{ID: "C-2", Name: "Bob"}))

	require.NoError(t, d.DeleteUser("U-1"))
	_, err := d.GetUser("U-1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	list, err := d.ListContacts("U-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	// The email can be registered again
	createTestUser(t, d, "U-2", "ada@example.com")

	assert.ErrorIs(t, d.DeleteUser("U-1"), ErrUserNotFound)
}

func TestRevoked(t *testing.T) {
	d := openTest(t)
	now := time.Now()

	require.NoError(t, d.Revoke("T-old", "U-1", now.Add(-time.Minute)))
	require.NoError(t, d.Revoke("T-new", "U-1", now.Add(time.Hour)))
	assert.True(t, d.IsRevoked("T-old"))
	assert.True(t, d.IsRevoked("T-new"))
	assert.False(t, d.IsRevoked("T-other"))

	n, err := d.PruneRevoked(now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, d.IsRevoked("T-old"))
	assert.True(t, d.IsRevoked("T-new"))
}

func TestContactKey(t *testing.T) {
	assert.Equal(t, "U-1:C-1", contactKey("U-1", "C-1"))
	assert.Equal(t, "U1:C1", contactKey("U:1", "C:1"))
}
