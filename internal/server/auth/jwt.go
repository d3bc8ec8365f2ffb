// Package auth holds the credential primitives of gophauth: password
// hashing and signed access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims of an access token: the registered claims
// (sub = username) plus the account roles.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// TokenIssuer signs and verifies HS256 access tokens with a server-held secret.
type TokenIssuer struct {
	secretKey        []byte
	issuer           string
	validityDuration time.Duration
	now              func() time.Time
}

func NewTokenIssuer(secretKey []byte, issuer string, validityDuration time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secretKey:        secretKey,
		issuer:           issuer,
		validityDuration: validityDuration,
		now:              time.Now,
	}
}

// Generate mints a token for subject carrying roles. Every token gets a
// fresh jti, so two tokens for the same subject never compare equal.
func (ti *TokenIssuer) Generate(subject string, roles []string) (string, error) {
	now := ti.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ti.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.validityDuration)),
		},
		Roles: roles,
	})

	tokenString, err := token.SignedString(ti.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies signature, algorithm, issuer and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired, anything else common.ErrInvalidToken.
func (ti *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	}
	if ti.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ti.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
