package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/auth"
)

type fakeProblemStore struct {
	problems map[int64]*models.Problem

	assignResult  bool
	assignErr     error
	assignedCalls int

	statusUpdates  []models.ProblemStatus
	contentUpdates int
}

func newFakeProblemStore(problems ...*models.Problem) *fakeProblemStore {
	m := make(map[int64]*models.Problem, len(problems))
	for _, p := range problems {
		m[p.ID] = p
	}
	return &fakeProblemStore{problems: m, assignResult: true}
}

func (f *fakeProblemStore) Create(ctx context.Context, problem *models.Problem) (int64, error) {
	problem.ID = int64(len(f.problems) + 1)
	f.problems[problem.ID] = problem
	return problem.ID, nil
}

func (f *fakeProblemStore) GetByID(ctx context.Context, id int64) (*models.Problem, error) {
	p, ok := f.problems[id]
	if !ok {
		return nil, apperrors.ErrProblemNotFound
	}
	return p, nil
}

func (f *fakeProblemStore) List(ctx context.Context, status, tag *string, studentID, mentorID *int64, offset uint64, limit int) ([]*models.Problem, int64, error) {
	out := make([]*models.Problem, 0, len(f.problems))
	for _, p := range f.problems {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProblemStore) AssignMentor(ctx context.Context, problemID, mentorID int64) (bool, error) {
	f.assignedCalls++
	if f.assignErr != nil {
		return false, f.assignErr
	}
	if f.assignResult {
		f.problems[problemID].MentorID = &mentorID
	}
	return f.assignResult, nil
}

func (f *fakeProblemStore) UpdateContent(ctx context.Context, id int64, title, description *string, tags []string) error {
	f.contentUpdates++
	return nil
}

func (f *fakeProblemStore) UpdateStatus(ctx context.Context, id int64, status models.ProblemStatus) error {
	f.statusUpdates = append(f.statusUpdates, status)
	f.problems[id].Status = status
	return nil
}

type fakeMatcher struct {
	matches []repositories.MentorMatch
	calls   int
}

func (f *fakeMatcher) FindMatchingMentors(ctx context.Context, tags []string, excludeID *int64, limit int) ([]repositories.MentorMatch, error) {
	f.calls++
	return f.matches, nil
}

func newProblemService(store *fakeProblemStore, matcher *fakeMatcher) *services.ProblemService {
	if matcher == nil {
		matcher = &fakeMatcher{}
	}
	return services.NewProblemService(store, matcher, zerolog.Nop())
}

func student(id int64) auth.Identity {
	return auth.Identity{UserID: id, Role: models.RoleStudent}
}

func mentor(id int64) auth.Identity {
	return auth.Identity{UserID: id, Role: models.RoleMentor}
}

func TestAssignMentorFirstWins(t *testing.T) {
	ctx := context.Background()
	store := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, Status: models.ProblemStatusOpen})
	svc := newProblemService(store, nil)

	resp, err := svc.AssignMentor(ctx, mentor(20), 1)
	if err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	if resp.MentorID == nil || *resp.MentorID != 20 {
		t.Fatalf("expected mentor 20 assigned, got %v", resp.MentorID)
	}

	// second mentor loses
	store.assignResult = false
	_, err = svc.AssignMentor(ctx, mentor(30), 1)
	if !apperrors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict for second mentor, got %v", err)
	}

	// same mentor again is a no-op, not a conflict
	store.assignResult = true
	if _, err := svc.AssignMentor(ctx, mentor(20), 1); err != nil {
		t.Fatalf("re-assignment by same mentor: %v", err)
	}
}

func TestAssignMentorRequiresMentorRole(t *testing.T) {
	store := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10})
	svc := newProblemService(store, nil)

	_, err := svc.AssignMentor(context.Background(), student(10), 1)
	if !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for student, got %v", err)
	}
	if store.assignedCalls != 0 {
		t.Fatalf("store should not be touched on role rejection")
	}
}

func TestAssignMentorMissingProblem(t *testing.T) {
	svc := newProblemService(newFakeProblemStore(), nil)

	_, err := svc.AssignMentor(context.Background(), mentor(20), 99)
	if !errors.Is(err, apperrors.ErrProblemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusOnlyAssignedMentor(t *testing.T) {
	ctx := context.Background()
	mentorID := int64(20)
	store := newFakeProblemStore(&models.Problem{
		ID: 1, StudentID: 10, MentorID: &mentorID, Status: models.ProblemStatusOpen,
	})
	svc := newProblemService(store, nil)
	status := "RESOLVED"

	// the author cannot move the status
	_, err := svc.Update(ctx, student(10), 1, &dto.UpdateProblemRequest{Status: &status})
	if !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for author, got %v", err)
	}

	// another mentor cannot either
	_, err = svc.Update(ctx, mentor(30), 1, &dto.UpdateProblemRequest{Status: &status})
	if !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for other mentor, got %v", err)
	}

	resp, err := svc.Update(ctx, mentor(20), 1, &dto.UpdateProblemRequest{Status: &status})
	if err != nil {
		t.Fatalf("assigned mentor status update: %v", err)
	}
	if resp.Status != "RESOLVED" {
		t.Fatalf("expected RESOLVED, got %s", resp.Status)
	}
}

func TestUpdateStatusUnassignedProblem(t *testing.T) {
	store := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, Status: models.ProblemStatusOpen})
	svc := newProblemService(store, nil)
	status := "IN_PROGRESS"

	_, err := svc.Update(context.Background(), mentor(20), 1, &dto.UpdateProblemRequest{Status: &status})
	if !apperrors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict for unassigned problem, got %v", err)
	}
}

func TestUpdateContentOnlyAuthor(t *testing.T) {
	ctx := context.Background()
	mentorID := int64(20)
	store := newFakeProblemStore(&models.Problem{
		ID: 1, StudentID: 10, MentorID: &mentorID, Status: models.ProblemStatusOpen,
	})
	svc := newProblemService(store, nil)

	// a mentor patching tags without a status lands in the author branch
	_, err := svc.Update(ctx, mentor(20), 1, &dto.UpdateProblemRequest{Tags: []string{"go"}})
	if !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied for mentor content edit, got %v", err)
	}
	if store.contentUpdates != 0 {
		t.Fatalf("content update should not reach the store")
	}

	title := "Better title"
	if _, err := svc.Update(ctx, student(10), 1, &dto.UpdateProblemRequest{Title: &title}); err != nil {
		t.Fatalf("author content update: %v", err)
	}
	if store.contentUpdates != 1 {
		t.Fatalf("expected one content update, got %d", store.contentUpdates)
	}
}

func TestUpdateContentEmptyPatch(t *testing.T) {
	store := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10})
	svc := newProblemService(store, nil)

	_, err := svc.Update(context.Background(), student(10), 1, &dto.UpdateProblemRequest{})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for empty patch, got %v", err)
	}
}

func TestMatchingMentorsUntaggedProblem(t *testing.T) {
	matcher := &fakeMatcher{}
	store := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, Tags: []string{}})
	svc := newProblemService(store, matcher)

	matches, err := svc.MatchingMentors(context.Background(), 1)
	if err != nil {
		t.Fatalf("matching mentors: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected empty match list, got %d", len(matches))
	}
	if matcher.calls != 0 {
		t.Fatalf("matcher should not be queried for an untagged problem")
	}
}

func TestMatchingMentorsMapsOverlap(t *testing.T) {
	matcher := &fakeMatcher{matches: []repositories.MentorMatch{
		{User: &models.User{ID: 7, FirstName: "Ada", Skills: []string{"go", "sql"}}, OverlapCount: 2},
		{User: &models.User{ID: 9, FirstName: "Grace", Skills: []string{"go"}}, OverlapCount: 1},
	}}
	store := newFakeProblemStore(&models.Problem{ID: 1, StudentID: 10, Tags: []string{"go", "sql"}})
	svc := newProblemService(store, matcher)

	matches, err := svc.MatchingMentors(context.Background(), 1)
	if err != nil {
		t.Fatalf("matching mentors: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != 7 || matches[0].OverlapCount != 2 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
}

func TestCreateProblemRequiresTitle(t *testing.T) {
	svc := newProblemService(newFakeProblemStore(), nil)

	_, err := svc.Create(context.Background(), student(10), &dto.CreateProblemRequest{
		Title: "   ", Description: "details",
	})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProblemNormalizesTags(t *testing.T) {
	store := newFakeProblemStore()
	svc := newProblemService(store, nil)

	resp, err := svc.Create(context.Background(), student(10), &dto.CreateProblemRequest{
		Title:       "Deadlock",
		Description: "details",
		Tags:        []string{" Go ", "go", "SQL"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(resp.Tags) != 2 || resp.Tags[0] != "go" || resp.Tags[1] != "sql" {
		t.Fatalf("expected normalized tags [go sql], got %v", resp.Tags)
	}
	if resp.Status != "OPEN" {
		t.Fatalf("expected OPEN status, got %s", resp.Status)
	}
	if resp.MentorID != nil {
		t.Fatalf("new problem must be unassigned")
	}
}
