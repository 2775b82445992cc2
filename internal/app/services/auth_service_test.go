package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/auth"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	nextID  int64
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[int64]*models.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
		if u.ID > s.nextID {
			s.nextID = u.ID
		}
	}
	return s
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return 0, apperrors.ErrEmailAlreadyExists
	}
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	now := time.Now()
	f.byID[id].LastLoginAt = &now
	return nil
}

type fakeTokenStore struct {
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]int64), revoked: make(map[string]bool)}
}

func (f *fakeTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) GetTokenUser(ctx context.Context, token string) (int64, error) {
	if f.revoked[token] {
		return 0, apperrors.ErrTokenRevoked
	}
	userID, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	return userID, nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func newAuthService(users *fakeUserStore, tokens *fakeTokenStore) *services.AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return services.NewAuthService(users, tokens, jwtService, zerolog.Nop())
}

func TestRegisterIssuesTokens(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users, newFakeTokenStore())

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "New.User@Example.com",
		Password:  "longenough",
		FirstName: "New",
		LastName:  "User",
		RoleType:  "STUDENT",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("token pair missing")
	}
	// email is normalized to lower case
	if _, ok := users.byEmail["new.user@example.com"]; !ok {
		t.Fatalf("email was not normalized: %v", users.byEmail)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), newFakeTokenStore())
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"bad email", dto.RegisterRequest{Email: "not-an-email", Password: "longenough", RoleType: "STUDENT"}},
		{"short password", dto.RegisterRequest{Email: "a@b.com", Password: "short", RoleType: "STUDENT"}},
		{"admin role", dto.RegisterRequest{Email: "a@b.com", Password: "longenough", RoleType: "ADMIN"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, &tc.req); !apperrors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), newFakeTokenStore())
	ctx := context.Background()
	req := &dto.RegisterRequest{
		Email: "dup@example.com", Password: "longenough",
		FirstName: "A", LastName: "B", RoleType: "MENTOR",
	}

	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !apperrors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hashed, err := auth.HashPassword("correct-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := newFakeUserStore(&models.User{
		ID: 1, Email: "a@b.com", Password: hashed, IsActive: true,
	})
	svc := newAuthService(users, newFakeTokenStore())

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "a@b.com", Password: "wrong"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginUnknownEmailHidesExistence(t *testing.T) {
	svc := newAuthService(newFakeUserStore(), newFakeTokenStore())

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@b.com", Password: "whatever"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	hashed, _ := auth.HashPassword("correct-pass")
	users := newFakeUserStore(&models.User{
		ID: 1, Email: "a@b.com", Password: hashed, IsActive: false,
	})
	svc := newAuthService(users, newFakeTokenStore())

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "a@b.com", Password: "correct-pass"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Fatalf("expected account disabled, got %v", err)
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := newAuthService(users, tokens)

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "a@b.com", Password: "longenough",
		FirstName: "A", LastName: "B", RoleType: "STUDENT",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, registered.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	// the old token is revoked and cannot be replayed
	if _, err := svc.RefreshToken(ctx, registered.RefreshToken); err == nil {
		t.Fatalf("revoked token must not refresh")
	}
}
