package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

// JWT-related errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrSecretEmpty      = errors.New("JWT secret cannot be empty")
	ErrProfileEmpty     = errors.New("profile cannot be nil")
)

// Issuer is set on tokens issued by the storefront backend.
const Issuer = "tiembanhngot"

// DefaultTokenTTL is used when GenerateToken gets a non-positive ttl.
const DefaultTokenTTL = 72 * time.Hour

// Claims carried by storefront tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for profile and returns it with its expiry.
func GenerateToken(profile *models.Profile, secret string, ttl time.Duration) (string, time.Time, error) {
	if profile == nil {
		return "", time.Time{}, ErrProfileEmpty
	}
	if secret == "" {
		return "", time.Time{}, ErrSecretEmpty
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID:   profile.ID,
		Username: profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", profile.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies the signature and expiry and returns the claims.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	if secret == "" {
		return nil, ErrSecretEmpty
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ParseUnverified reads the claims without checking the signature. The
// client does not know the signing secret, so the result is for display only
// and must never decide whether a request is authenticated.
func ParseUnverified(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// IsTokenExpired reports whether the token's expiry has passed, without
// checking the signature. Unreadable tokens count as expired; tokens without
// an expiry never expire.
func IsTokenExpired(tokenString string) bool {
	claims, err := ParseUnverified(tokenString)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
