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

// MatchingMentorLimit caps the matching-mentors listing
const MatchingMentorLimit = 5

// ProblemStore is the problem persistence surface the problem service needs
type ProblemStore interface {
	Create(ctx context.Context, problem *models.Problem) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Problem, error)
	List(ctx context.Context, status, tag *string, studentID, mentorID *int64, offset uint64, limit int) ([]*models.Problem, int64, error)
	AssignMentor(ctx context.Context, problemID, mentorID int64) (bool, error)
	UpdateContent(ctx context.Context, id int64, title, description *string, tags []string) error
	UpdateStatus(ctx context.Context, id int64, status models.ProblemStatus) error
}

// MentorMatcher finds mentors whose skills overlap a tag set
type MentorMatcher interface {
	FindMatchingMentors(ctx context.Context, tags []string, excludeID *int64, limit int) ([]repositories.MentorMatch, error)
}

// ProblemService handles problem lifecycle and mentor matching
type ProblemService struct {
	problemRepo ProblemStore
	matcher     MentorMatcher
	logger      zerolog.Logger
}

// NewProblemService creates a new ProblemService
func NewProblemService(problemRepo ProblemStore, matcher MentorMatcher, logger zerolog.Logger) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		matcher:     matcher,
		logger:      logger,
	}
}

// Create posts a new problem owned by the caller, starting OPEN and unassigned
func (s *ProblemService) Create(ctx context.Context, identity auth.Identity, req *dto.CreateProblemRequest) (*dto.ProblemResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.NewValidationError("description is required")
	}

	problem := &models.Problem{
		StudentID:   identity.UserID,
		Title:       title,
		Description: req.Description,
		Tags:        validation.NormalizeTags(req.Tags),
		Status:      models.ProblemStatusOpen,
	}

	if _, err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("problem_id", problem.ID).Int64("student_id", identity.UserID).Msg("Problem created")
	resp := dto.ToProblemResponse(problem)
	return &resp, nil
}

// GetByID retrieves one problem
func (s *ProblemService) GetByID(ctx context.Context, id int64) (*dto.ProblemResponse, error) {
	problem, err := s.problemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProblemResponse(problem)
	return &resp, nil
}

// List retrieves problems matching the given filters
func (s *ProblemService) List(ctx context.Context, filter *dto.ProblemFilterRequest) (*dto.ProblemListResponse, error) {
	if filter.Status != nil && *filter.Status != "" && !models.ValidProblemStatus(models.ProblemStatus(*filter.Status)) {
		return nil, apperrors.NewValidationError("unknown problem status")
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	problems, total, err := s.problemRepo.List(ctx, filter.Status, filter.Tag, filter.StudentID, filter.MentorID, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProblemListResponse{
		Problems:   make([]dto.ProblemResponse, 0, len(problems)),
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}
	for _, p := range problems {
		resp.Problems = append(resp.Problems, dto.ToProblemResponse(p))
	}

	return resp, nil
}

// Update patches a problem. A patch that carries a status change is the
// mentor branch: only the assigned mentor may apply it, and only the status
// moves. A patch without a status is the author branch: only the owning
// student may edit title, description and tags. A mentor editing tags
// without a status lands in the author branch and is rejected.
func (s *ProblemService) Update(ctx context.Context, identity auth.Identity, id int64, req *dto.UpdateProblemRequest) (*dto.ProblemResponse, error) {
	problem, err := s.problemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.HasStatus() {
		return s.updateStatus(ctx, identity, problem, *req.Status)
	}
	return s.updateContent(ctx, identity, problem, req)
}

func (s *ProblemService) updateStatus(ctx context.Context, identity auth.Identity, problem *models.Problem, status string) (*dto.ProblemResponse, error) {
	next := models.ProblemStatus(status)
	if !models.ValidProblemStatus(next) {
		return nil, apperrors.NewValidationError("unknown problem status")
	}
	if problem.MentorID == nil {
		return nil, apperrors.NewConflictError("problem has no assigned mentor")
	}
	if *problem.MentorID != identity.UserID {
		return nil, apperrors.NewForbiddenError("only the assigned mentor can change the status")
	}

	if err := s.problemRepo.UpdateStatus(ctx, problem.ID, next); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, problem.ID)
}

func (s *ProblemService) updateContent(ctx context.Context, identity auth.Identity, problem *models.Problem, req *dto.UpdateProblemRequest) (*dto.ProblemResponse, error) {
	if problem.StudentID != identity.UserID {
		return nil, apperrors.NewForbiddenError("only the problem author can edit it")
	}
	if req.Title == nil && req.Description == nil && req.Tags == nil {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	var tags []string
	if req.Tags != nil {
		tags = validation.NormalizeTags(req.Tags)
	}

	if err := s.problemRepo.UpdateContent(ctx, problem.ID, req.Title, req.Description, tags); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, problem.ID)
}

// AssignMentor assigns the calling mentor to a problem. Assigning an already
// assigned problem to the same mentor is a no-op; to a different mentor it is
// a conflict. First assignment wins under concurrency, decided by the
// database rather than a lock.
func (s *ProblemService) AssignMentor(ctx context.Context, identity auth.Identity, problemID int64) (*dto.ProblemResponse, error) {
	if !identity.IsMentor() && !identity.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only mentors can take problems")
	}

	// existence check first so a missing problem is NotFound, not Conflict
	if _, err := s.problemRepo.GetByID(ctx, problemID); err != nil {
		return nil, err
	}

	assigned, err := s.problemRepo.AssignMentor(ctx, problemID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, apperrors.NewConflictError("problem is already assigned to another mentor")
	}

	s.logger.Info().Int64("problem_id", problemID).Int64("mentor_id", identity.UserID).Msg("Mentor assigned")
	return s.GetByID(ctx, problemID)
}

// MatchingMentors returns up to MatchingMentorLimit mentors whose skills
// intersect the problem's tags, excluding the assigned mentor, ordered by
// overlap count descending then mentor id. An untagged problem matches
// nobody without touching the directory.
func (s *ProblemService) MatchingMentors(ctx context.Context, problemID int64) ([]dto.MatchingMentorResponse, error) {
	problem, err := s.problemRepo.GetByID(ctx, problemID)
	if err != nil {
		return nil, err
	}

	if len(problem.Tags) == 0 {
		return []dto.MatchingMentorResponse{}, nil
	}

	matches, err := s.matcher.FindMatchingMentors(ctx, problem.Tags, problem.MentorID, MatchingMentorLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.MatchingMentorResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, dto.MatchingMentorResponse{
			ID:           m.User.ID,
			FirstName:    m.User.FirstName,
			LastName:     m.User.LastName,
			Skills:       m.User.Skills,
			OverlapCount: m.OverlapCount,
		})
	}

	return resp, nil
}

var (
	_ ProblemStore  = (*repositories.ProblemRepository)(nil)
	_ MentorMatcher = (*repositories.UserRepository)(nil)
)
