package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/auth"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
	"github.com/edulink/mentorhub/internal/pkg/validation"
)

// UserStore is the user persistence surface the user service needs
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, bio *string) error
	UpdateSkills(ctx context.Context, id int64, skills []string) error
	ListMentors(ctx context.Context, skill *string, offset uint64, limit int) ([]*models.User, int64, error)
}

// UserService handles profile and mentor directory operations
type UserService struct {
	userRepo UserStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, logger zerolog.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// GetProfile returns the profile of the given user
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile patches the caller's own profile fields. Nil fields are left
// unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, identity auth.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if req.FirstName == nil && req.LastName == nil && req.Bio == nil {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return nil, apperrors.NewValidationError("first name cannot be empty")
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		return nil, apperrors.NewValidationError("last name cannot be empty")
	}

	if err := s.userRepo.UpdateProfile(ctx, identity.UserID, req.FirstName, req.LastName, req.Bio); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, identity.UserID)
}

// UpdateSkills replaces the caller's skill tags. Only mentors carry a skill
// set that matters for matching, but students may maintain one too.
func (s *UserService) UpdateSkills(ctx context.Context, identity auth.Identity, req *dto.UpdateSkillsRequest) (*dto.UserResponse, error) {
	skills := validation.NormalizeTags(req.Skills)

	if err := s.userRepo.UpdateSkills(ctx, identity.UserID, skills); err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("user_id", identity.UserID).Int("skills", len(skills)).Msg("Skills updated")
	return s.GetProfile(ctx, identity.UserID)
}

// ListMentors returns active mentors, optionally filtered by one skill tag
func (s *UserService) ListMentors(ctx context.Context, skill *string, page, pageSize int) (*dto.MentorListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	mentors, total, err := s.userRepo.ListMentors(ctx, skill, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.MentorListResponse{
		Mentors:    make([]dto.UserResponse, 0, len(mentors)),
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, m := range mentors {
		resp.Mentors = append(resp.Mentors, dto.ToUserResponse(m))
	}

	return resp, nil
}

var _ UserStore = (*repositories.UserRepository)(nil)
