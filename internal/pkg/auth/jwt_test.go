package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/pkg/auth"
)

func newTestService(accessExp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{ID: 7, Email: "user@example.com", RoleType: models.RoleMentor}

	access, refresh, expiresIn, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if refresh == "" {
		t.Fatalf("refresh token missing")
	}
	if expiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", expiresIn)
	}

	claims, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "user@example.com" || claims.RoleType != "MENTOR" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	access, _, _, _, err := svc.GenerateTokenPair(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateToken(access); !errors.Is(err, auth.ErrExpiredToken) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	access, _, _, _, err := newTestService(time.Hour).GenerateTokenPair(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "different", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(access); err == nil {
		t.Fatalf("token signed with another secret must not validate")
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := auth.ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("got %q", token)
	}

	for _, header := range []string{"", "abc.def.ghi", "Bearer ", "Basic abc"} {
		if _, err := auth.ExtractBearerToken(header); err == nil {
			t.Errorf("header %q should be rejected", header)
		}
	}
}
