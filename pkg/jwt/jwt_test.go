package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func TestService_GenerateAndValidateToken(t *testing.T) {
	tests := []struct {
		name        string
		token       func(t *testing.T) string
		expectedErr error
		verify      func(t *testing.T, claims *Claims)
	}{
		{
			name: "success",
			token: func(t *testing.T) string {
				tok, err := NewService(testSecret).GenerateToken("scorer", time.Hour)
				if err != nil {
					t.Fatalf("GenerateToken: %v", err)
				}
				return tok
			},
			verify: func(t *testing.T, claims *Claims) {
				if claims.Subject != "scorer" {
					t.Errorf("expected subject scorer, got %s", claims.Subject)
				}
				if claims.Issuer != issuer {
					t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
				}
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				tok, _ := NewService(testSecret).GenerateToken("scorer", -time.Hour)
				return tok
			},
			expectedErr: ErrExpiredToken,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				tok, _ := NewService("another-secret-that-is-long-enough").GenerateToken("scorer", time.Hour)
				return tok
			},
			expectedErr: ErrInvalidSignature,
		},
		{
			name: "other algorithm",
			token: func(t *testing.T) string {
				tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				}).SignedString([]byte(testSecret))
				return tok
			},
			expectedErr: ErrInvalidSignature,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "forever"}).
					SignedString([]byte(testSecret))
				return tok
			},
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "garbage",
			token:       func(t *testing.T) string { return "not.a.token" },
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := NewService(testSecret).ValidateToken(tt.token(t))
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.verify != nil {
				tt.verify(t, claims)
			}
		})
	}
}

func TestService_ValidateToken_UsesClock(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &service{secret: []byte(testSecret), now: func() time.Time { return issued }}

	tok, err := s.GenerateToken("scorer", time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := s.ValidateToken(tok); err != nil {
		t.Fatalf("token should be valid at issue time: %v", err)
	}

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := s.ValidateToken(tok); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected expiry after ttl, got %v", err)
	}
}
