package auth

import (
	"errors"
	"testing"
	"time"
)

func testManager(accessTTL, refreshTTL time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Issuer:     "task-api-test",
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	m := testManager(15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" {
		t.Fatalf("claims = %+v, want user 42/alice", claims)
	}
}

func TestRefreshToken_RoundTripWithJTI(t *testing.T) {
	m := testManager(15*time.Minute, time.Hour)

	token, jti, err := m.GenerateRefreshToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if jti == "" {
		t.Fatal("empty jti")
	}
	claims, err := m.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("claims.ID = %q, want %q", claims.ID, jti)
	}
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	m := testManager(15*time.Minute, time.Hour)

	access, err := m.GenerateAccessToken(1, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh validation of access token: err = %v, want ErrInvalidToken", err)
	}

	refresh, _, err := m.GenerateRefreshToken(1, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access validation of refresh token: err = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testManager(-time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(1, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	m := testManager(15*time.Minute, time.Hour)
	other := NewJWTManager(JWTConfig{Secret: "other-secret", AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour})

	token, err := m.GenerateAccessToken(1, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
