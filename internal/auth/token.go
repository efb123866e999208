// Package auth issues and verifies the signed bearer tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
)

// Claims carries the user id in the subject plus the username for convenience.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// GenerateToken signs a token for the user valid for the issuer ttl.
func (i *Issuer) GenerateToken(userID uuid.UUID, username string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Username: username,
	})

	return token.SignedString(i.secret)
}

// ParseToken verifies the token and returns the user id it was issued for.
// It fails with common.ErrExpiredToken for an expired token, common.ErrInvalidToken for any other
// verification failure and common.ErrUnauthorized when the subject is not a user id.
func (i *Issuer) ParseToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, common.ErrExpiredToken
		default:
			return uuid.Nil, common.ErrInvalidToken
		}
	}

	if !token.Valid {
		return uuid.Nil, common.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, common.ErrUnauthorized
	}

	return id, nil
}
