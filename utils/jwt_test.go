package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.NewString()
	token, err := GenerateToken(userID, "lecturer@uni.edu", "LECTURER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user_id = %q, want %q", claims.UserID, userID)
	}
	if claims.Email != "lecturer@uni.edu" || claims.Role != "LECTURER" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(claims.IssuedAt.Time) {
		t.Fatalf("expiry not set after issue time")
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken(uuid.NewString(), "s@uni.edu", "STUDENT")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Setenv("JWT_SECRET", "other-secret")
	if _, err := VerifyToken(token); err == nil {
		t.Fatalf("token verified with the wrong secret")
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Fatalf("garbage token verified")
	}
}
