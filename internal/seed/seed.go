package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
)

const defaultAdminEmail = "admin@mentorhub.app"

// CreateDefaultData ensures a default admin account exists. The password comes
// from ADMIN_PASSWORD; without it, no admin is seeded.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		lgr.Info().Msg("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     defaultAdminEmail,
		Password:  string(hashed),
		FirstName: "Platform",
		LastName:  "Admin",
		RoleType:  models.RoleAdmin,
		Skills:    []string{},
		IsActive:  true,
	}

	id, err := userRepo.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Debug().Str("email", defaultAdminEmail).Msg("Default admin already exists")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin user")
		return err
	}

	lgr.Info().Int64("userId", id).Str("email", defaultAdminEmail).Msg("Default admin user created")
	return nil
}
