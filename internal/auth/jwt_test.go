package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestManager() *Manager {
	return &Manager{
		Secret:     []byte("test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "aperture-backend",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.Issuer != "aperture-backend" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := newTestManager()
	m.AccessTTL = -time.Minute

	token, err := m.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongSigningMethod(t *testing.T) {
	m := newTestManager()

	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(m.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatalf("expected non-HS256 token to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := newTestManager()
	other.Secret = []byte("different-secret")

	token, err := other.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}
