package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// VerifierConfig holds the shared-secret configuration for validating tokens
// issued by the external identity provider
type VerifierConfig struct {
	Secret string
	Issuer string
}

// Claims are the identity-provider claims consumed by the auth middleware.
// Subject carries the user ID the provider assigned at sign-up.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the provider-assigned user ID
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenVerifier validates identity-provider tokens. The platform never
// issues tokens itself; credentials live with the provider.
type TokenVerifier struct {
	config VerifierConfig
}

// NewTokenVerifier creates a new token verifier
func NewTokenVerifier(config VerifierConfig) *TokenVerifier {
	return &TokenVerifier{config: config}
}

// ValidateToken parses and validates an HS256 token string
func (v *TokenVerifier) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(v.config.Secret), nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if v.config.Issuer != "" && claims.Issuer != v.config.Issuer {
		return nil, ErrInvalidClaims
	}

	if claims.Subject == "" {
		return nil, ErrInvalidClaims
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}
