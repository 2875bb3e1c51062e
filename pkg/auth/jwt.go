package auth

import (
	"errors"
	"fmt"
	"time"

	"ambulink/pkg/model"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "ambulink"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidRole  = errors.New("token carries an unknown role")
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Caller() model.Caller {
	return model.Caller{UserID: c.UserID, Role: c.Role}
}

// Issue signs an HS256 token. Services only verify tokens; Issue exists for
// operational tooling and tests.
func Issue(secret, userID, role string, ttl time.Duration) (string, error) {
	if !validRole(role) {
		return "", ErrInvalidRole
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func Parse(secret, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if !validRole(claims.Role) {
		return nil, ErrInvalidRole
	}
	return claims, nil
}

func validRole(role string) bool {
	switch role {
	case model.RoleUser, model.RoleDriver, model.RoleAdmin:
		return true
	}
	return false
}
