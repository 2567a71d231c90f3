/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CardScan/CardScan/common/null"
	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/server/global"
)

func newTestData(t *testing.T) *Data {
	t.Helper()
	conf, err := global.Config(filepath.Join(t.TempDir(), global.ConfigFileName))
	require.NoError(t, err)

	d, err := New(conf, null.Logger())
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func register(t *testing.T, d *Data, email string) schema.AuthResponse {
	t.Helper()
	pair, err := d.Register(context.Background(), schema.RegisterRequest{FullName: "Ada Lovelace", Email: email, Password: "secret123"})
	require.NoError(t, err)
	return pair
}

func TestNewCreatesJWTKey(t *testing.T) {
	d := newTestData(t)
	assert.NotEmpty(t, d.jwtKey)
	assert.Equal(t, string(d.jwtKey), d.conf.SP.Get(global.ConfigJWTKey).String())
}

func TestRegisterAndLogin(t *testing.T) {
	d := newTestData(t)
	pair := register(t, d, "Ada@Example.com")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err := d.Register(context.Background(), schema.RegisterRequest{FullName: "Other", Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = d.Register(context.Background(), schema.RegisterRequest{FullName: "", Email: "x@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, schema.ErrNameRequired)

	login, err := d.Login(schema.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	subject, err := d.ValidateToken(login.AccessToken, schema.TokenPurposeAccess)
	require.NoError(t, err)
	user, err := d.GetUser(subject)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestLoginErrors(t *testing.T) {
	d := newTestData(t)
	register(t, d, "ada@example.com")

	_, err := d.Login(schema.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = d.Login(schema.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrBadPassword)
}

func TestTokenPurpose(t *testing.T) {
	d := newTestData(t)
	pair := register(t, d, "ada@example.com")

	_, err := d.ValidateToken(pair.AccessToken, schema.TokenPurposeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = d.ValidateToken(pair.RefreshToken, schema.TokenPurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = d.ValidateToken("not-a-token", schema.TokenPurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	d := newTestData(t)
	pair := register(t, d, "ada@example.com")
	subject, err := d.ValidateToken(pair.AccessToken, schema.TokenPurposeAccess)
	require.NoError(t, err)

	now := time.Now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			Issuer:    global.Name,
			ID:        "T-expired",
		},
		Purpose: schema.TokenPurposeAccess,
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.jwtKey)
	require.NoError(t, err)

	_, err = d.ValidateToken(expired, schema.TokenPurposeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshDoesNotRotate(t *testing.T) {
	d := newTestData(t)
	pair := register(t, d, "ada@example.com")

	first, err := d.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	second, err := d.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, pair.RefreshToken, first.RefreshToken)
	assert.Equal(t, pair.RefreshToken, second.RefreshToken)
	assert.NotEmpty(t, first.AccessToken)

	_, err = d.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokes(t *testing.T) {
	d := newTestData(t)
	pair := register(t, d, "ada@example.com")

	require.NoError(t, d.Logout(pair.RefreshToken))
	_, err := d.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.ErrorIs(t, d.Logout("garbage"), ErrInvalidToken)

	// Revocation entries for live tokens survive pruning
	d.PruneDB()
	_, err = d.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestDeleteUserInvalidatesTokens(t *testing.T) {
	d := newTestData(t)
	pair := register(t, d, "ada@example.com")
	subject, err := d.ValidateToken(pair.AccessToken, schema.TokenPurposeAccess)
	require.NoError(t, err)

	_, err = d.AddContact(subject, schema.ContactRequest{Name: "Bob"})
	require.NoError(t, err)

	require.NoError(t, d.DeleteUser(subject))
	_, err = d.ValidateToken(pair.AccessToken, schema.TokenPurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = d.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	list, err := d.ListContacts(subject)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContacts(t *testing.T) {
	d := newTestData(t)

	c, err := d.AddContact("U-1", schema.ContactRequest{
		Name:         "  Grace Hopper ",
		PhoneNumbers: []string{" +1 555 0100 ", ""},
		Company:      "Navy",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", c.Name)
	assert.Equal(t, []string{"+1 555 0100"}, c.PhoneNumbers)
	assert.NotEmpty(t, c.ID)

	_, err = d.AddContact("U-1", schema.ContactRequest{Name: " "})
	assert.ErrorIs(t, err, schema.ErrContactName)

	list, err := d.ListContacts("U-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, d.DeleteContact("U-2", c.ID), ErrContactNotFound)
	require.NoError(t, d.DeleteContact("U-1", c.ID))
	assert.ErrorIs(t, d.DeleteContact("U-1", c.ID), ErrContactNotFound)
}

func TestUpdateContact(t *testing.T) {
	d := newTestData(t)
	c, err := d.AddContact("U-1", schema.ContactRequest{Name: "Grace", Company: "Navy"})
	require.NoError(t, err)

	updated, err := d.UpdateContact("U-1", c.ID, schema.ContactRequest{
		Name:         " Grace Hopper ",
		PhoneNumbers: []string{"", "+1 555 0100"},
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "Grace Hopper", updated.Name)
	assert.Equal(t, []string{"+1 555 0100"}, updated.PhoneNumbers)
	assert.Empty(t, updated.Company)
	assert.True(t, c.CreatedAt.Equal(updated.CreatedAt))

	_, err = d.UpdateContact("U-1", c.ID, schema.ContactRequest{Name: "  "})
	assert.ErrorIs(t, err, schema.ErrContactName)
	_, err = d.UpdateContact("U-2", c.ID, schema.ContactRequest{Name: "Mallory"})
	assert.ErrorIs(t, err, ErrContactNotFound)
	_, err = d.UpdateContact("U-1", "C-missing", schema.ContactRequest{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestSearchContacts(t *testing.T) {
	d := newTestData(t)
	for _, req := range []schema.ContactRequest{
		{Name: "Grace Hopper", Company: "Navy"},
		{Name: "Ada Lovelace", Email: "ada@analytical.example"},
		{Name: "Bob", PhoneNumbers: []string{"+1 555 0199"}},
	} {
		_, err := d.AddContact("U-1", req)
		require.NoError(t, err)
	}

	names := func(query string) []string {
		list, err := d.SearchContacts("U-1", query)
		require.NoError(t, err)
		var n []string
		for _, c := range list {
			n = append(n, c.Name)
		}
		return n
	}

	assert.Len(t, names(""), 3)
	assert.Equal(t, []string{"Grace Hopper"}, names("NAVY"))
	assert.Equal(t, []string{"Ada Lovelace"}, names("analytical"))
	assert.Equal(t, []string{"Bob"}, names("0199"))
	assert.Empty(t, names("nobody"))
}
