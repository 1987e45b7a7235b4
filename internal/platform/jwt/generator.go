// Package jwtmw provides session token signing, verification and the gin
// middleware guarding authenticated routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature or claim
// verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded session token payload.
type Claims struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// Generator signs and verifies session tokens with a process-wide secret.
// The signing algorithm and expiry come from configuration, not from the
// token itself: verification only ever accepts the configured HMAC family.
type Generator struct {
	secret     []byte
	method     jwt.SigningMethod
	expiration time.Duration
}

// NewGenerator creates a Generator for the given secret, algorithm name
// (HS256, HS384 or HS512) and token lifetime.
func NewGenerator(secret, algorithm string, expiration time.Duration) (*Generator, error) {
	var method jwt.SigningMethod
	switch algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &Generator{
		secret:     []byte(secret),
		method:     method,
		expiration: expiration,
	}, nil
}

// Issue creates a signed session token asserting the given user identity.
func (g *Generator) Issue(userID, email, firstName, lastName string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       userID,
		"email":     email,
		"firstName": firstName,
		"lastName":  lastName,
		"iat":       now.Unix(),
		"exp":       now.Add(g.expiration).Unix(),
	}

	token := jwt.NewWithClaims(g.method, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token's signature and expiry and returns its claims.
// Verification needs only the shared secret; no external call is made.
func (g *Generator) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only the HMAC family is accepted.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.UserID = sub
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if first, ok := mapClaims["firstName"].(string); ok {
		claims.FirstName = first
	}
	if last, ok := mapClaims["lastName"].(string); ok {
		claims.LastName = last
	}
	return claims, nil
}
