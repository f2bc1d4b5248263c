package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test_secret_key"

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name        string
		profile     *models.Profile
		secret      string
		ttl         time.Duration
		expectedErr error
	}{
		{
			name:    "valid_token_generation",
			profile: &models.Profile{ID: 123, Username: "lan"},
			secret:  testSecret,
			ttl:     time.Hour,
		},
		{
			name:    "unicode_username",
			profile: &models.Profile{ID: 7, Username: "nguyễn_văn_a"},
			secret:  testSecret,
			ttl:     time.Hour,
		},
		{
			name:    "default_ttl",
			profile: &models.Profile{ID: 1, Username: "lan"},
			secret:  testSecret,
		},
		{
			name:        "nil_profile",
			secret:      testSecret,
			expectedErr: ErrProfileEmpty,
		},
		{
			name:        "empty_secret",
			profile:     &models.Profile{ID: 1, Username: "lan"},
			expectedErr: ErrSecretEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := GenerateToken(tt.profile, tt.secret, tt.ttl)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("Expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if strings.Count(token, ".") != 2 {
				t.Errorf("Expected a three part JWT, got %q", token)
			}

			wantTTL := tt.ttl
			if wantTTL <= 0 {
				wantTTL = DefaultTokenTTL
			}
			if d := time.Until(expiresAt); d > wantTTL || d < wantTTL-time.Minute {
				t.Errorf("Expected expiry about %v from now, got %v", wantTTL, d)
			}

			claims, err := ValidateToken(token, tt.secret)
			if err != nil {
				t.Fatalf("Generated token failed validation: %v", err)
			}
			if claims.UserID != tt.profile.ID || claims.Username != tt.profile.Username {
				t.Errorf("Claims mismatch: got %d/%s", claims.UserID, claims.Username)
			}
			if claims.Issuer != Issuer {
				t.Errorf("Expected issuer %q, got %q", Issuer, claims.Issuer)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	profile := &models.Profile{ID: 42, Username: "minh"}
	valid, _, err := GenerateToken(profile, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	expired := signClaims(t, Claims{
		UserID:   42,
		Username: "minh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSecret)

	tests := []struct {
		name        string
		token       string
		secret      string
		expectedErr error
	}{
		{"valid", valid, testSecret, nil},
		{"empty_token", "", testSecret, ErrInvalidToken},
		{"empty_secret", valid, "", ErrSecretEmpty},
		{"malformed", "not-a-jwt", testSecret, ErrTokenMalformed},
		{"wrong_secret", valid, "other_secret", ErrInvalidSignature},
		{"expired", expired, testSecret, ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.expectedErr == nil {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if claims.Username != "minh" {
					t.Errorf("Expected username minh, got %s", claims.Username)
				}
				return
			}
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("Expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestParseUnverified(t *testing.T) {
	// Signed with a secret the client never sees.
	token, _, err := GenerateToken(&models.Profile{ID: 5, Username: "hoa"}, "server_only_secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ParseUnverified(token)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if claims.Username != "hoa" || claims.UserID != 5 {
		t.Errorf("Unexpected claims %+v", claims)
	}

	if _, err := ParseUnverified(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for empty token, got %v", err)
	}
	if _, err := ParseUnverified("opaque-session-id"); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Expected ErrTokenMalformed for opaque token, got %v", err)
	}
}

func TestIsTokenExpired(t *testing.T) {
	fresh, _, _ := GenerateToken(&models.Profile{ID: 1, Username: "lan"}, testSecret, time.Hour)
	stale := signClaims(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}, testSecret)
	noExpiry := signClaims(t, Claims{Username: "lan"}, testSecret)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"fresh", fresh, false},
		{"expired", stale, true},
		{"no_expiry", noExpiry, false},
		{"garbage", "garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTokenExpired(tt.token); got != tt.want {
				t.Errorf("IsTokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func signClaims(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign claims: %v", err)
	}
	return token
}
