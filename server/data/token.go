/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/CardScan/CardScan/common/schema"
	"github.com/CardScan/CardScan/server/global"
)

//goland:noinspection ALL
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// CustomClaims includes jwt.RegisteredClaims and adds the token purpose and
// the subject's token version at the time of issue
type CustomClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
	Version int    `json:"ver,omitempty"`
}

// createToken issues a signed token for subject. The lifetime comes from
// the configuration entry for the purpose.
func (d *Data) createToken(subject string, purpose string) (string, error) {
	var lifeTime int

	switch purpose {
	case schema.TokenPurposeAccess:
		lifeTime = d.conf.SC.Get(global.ConfigAccessTokenLife).Int()
	case schema.TokenPurposeRefresh:
		lifeTime = d.conf.SC.Get(global.ConfigRefreshLife).Int()
	case schema.TokenPurposeReset:
		lifeTime = d.conf.SC.Get(global.ConfigResetLife).Int()
	case schema.TokenPurposeVerify:
		lifeTime = d.conf.SC.Get(global.ConfigVerifyLife).Int()
	default:
		return "", errors.New("invalid token purpose")
	}

	user, err := d.database.GetUser(subject)
	if err != nil {
		return "", err
	}

	// Set NotBefore 5 minutes in the past to allow for clock skew
	now := time.Now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(lifeTime) * time.Minute)),
			Issuer:    global.Name,
			ID:        "T-" + uuid.New().String(),
		},
		Purpose: purpose,
		Version: user.TokenVersion,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(d.jwtKey)
}

// parseToken verifies the signature, the lifetime, and the purpose
func (d *Data) parseToken(tokenString string, purpose string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return d.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(global.Name))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Purpose != purpose || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken validates the supplied token, including its purpose, and
// returns the subject. Tokens other than access tokens are also checked
// against the revocation list. The subject must still exist, and tokens
// issued before the last password change are rejected as revoked.
func (d *Data) ValidateToken(tokenString string, purpose string) (string, error) {
	claims, err := d.validateClaims(tokenString, purpose)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (d *Data) validateClaims(tokenString string, purpose string) (*CustomClaims, error) {
	claims, err := d.parseToken(tokenString, purpose)
	if err != nil {
		return nil, err
	}

	if purpose != schema.TokenPurposeAccess && d.database.IsRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}

	user, err := d.database.GetUser(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Version != user.TokenVersion {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// issue returns a new access and refresh token pair for subject
func (d *Data) issue(subject string) (schema.AuthResponse, error) {
	accessToken, err := d.createToken(subject, schema.TokenPurposeAccess)
	if err != nil {
		return schema.AuthResponse{}, err
	}

	refreshToken, err := d.createToken(subject, schema.TokenPurposeRefresh)
	if err != nil {
		return schema.AuthResponse{}, err
	}

	return schema.AuthResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
