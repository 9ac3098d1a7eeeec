// Package authtoken provides signing and verification of the JWT access
// tokens that carry the requesting actor's identity.
package authtoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/promptstash/promptstash/internal/access"
)

// Claims are the token claims carried by an access token.
type Claims struct {
	UserID       string `json:"user_id"`
	PlatformRole string `json:"platform_role"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given user valid for ttl.
func Generate(secret, userID string, role access.PlatformRole, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := &Claims{
		UserID:       userID,
		PlatformRole: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "promptstash",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a signed token and returns the actor it carries.
func Parse(secret, tokenStr string) (access.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return access.Actor{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return access.Actor{}, fmt.Errorf("invalid token")
	}

	role := access.PlatformRole(claims.PlatformRole)
	if !role.Valid() {
		return access.Actor{}, fmt.Errorf("invalid platform role in token")
	}

	return access.Actor{ID: claims.UserID, PlatformRole: role}, nil
}
