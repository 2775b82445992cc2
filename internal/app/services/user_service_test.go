package services_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
)

type fakeProfileStore struct {
	users   map[int64]*models.User
	mentors []*models.User
}

func (f *fakeProfileStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeProfileStore) UpdateProfile(ctx context.Context, id int64, firstName, lastName, bio *string) error {
	u := f.users[id]
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	if bio != nil {
		u.Bio = bio
	}
	return nil
}

func (f *fakeProfileStore) UpdateSkills(ctx context.Context, id int64, skills []string) error {
	f.users[id].Skills = skills
	return nil
}

func (f *fakeProfileStore) ListMentors(ctx context.Context, skill *string, offset uint64, limit int) ([]*models.User, int64, error) {
	return f.mentors, int64(len(f.mentors)), nil
}

func newUserService(store *fakeProfileStore) *services.UserService {
	return services.NewUserService(store, zerolog.Nop())
}

func TestUpdateProfileEmptyPatch(t *testing.T) {
	store := &fakeProfileStore{users: map[int64]*models.User{10: {ID: 10, FirstName: "A", LastName: "B"}}}
	svc := newUserService(store)

	_, err := svc.UpdateProfile(context.Background(), student(10), &dto.UpdateProfileRequest{})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProfileRejectsBlankName(t *testing.T) {
	store := &fakeProfileStore{users: map[int64]*models.User{10: {ID: 10, FirstName: "A", LastName: "B"}}}
	svc := newUserService(store)
	blank := "  "

	_, err := svc.UpdateProfile(context.Background(), student(10), &dto.UpdateProfileRequest{FirstName: &blank})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProfilePartialPatch(t *testing.T) {
	store := &fakeProfileStore{users: map[int64]*models.User{10: {ID: 10, FirstName: "A", LastName: "B"}}}
	svc := newUserService(store)
	bio := "Backend student"

	resp, err := svc.UpdateProfile(context.Background(), student(10), &dto.UpdateProfileRequest{Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Bio == nil || *resp.Bio != bio {
		t.Fatalf("bio not updated: %+v", resp)
	}
	if resp.FirstName != "A" {
		t.Fatalf("untouched field changed: %+v", resp)
	}
}

func TestUpdateSkillsNormalizes(t *testing.T) {
	store := &fakeProfileStore{users: map[int64]*models.User{10: {ID: 10}}}
	svc := newUserService(store)

	resp, err := svc.UpdateSkills(context.Background(), mentor(10), &dto.UpdateSkillsRequest{
		Skills: []string{" Go ", "go", "Distributed Systems"},
	})
	if err != nil {
		t.Fatalf("update skills: %v", err)
	}
	if len(resp.Skills) != 2 || resp.Skills[0] != "go" || resp.Skills[1] != "distributed systems" {
		t.Fatalf("skills not normalized: %v", resp.Skills)
	}
}

func TestListMentors(t *testing.T) {
	store := &fakeProfileStore{
		users: map[int64]*models.User{},
		mentors: []*models.User{
			{ID: 1, FirstName: "Ada", RoleType: models.RoleMentor, Skills: []string{"go"}},
			{ID: 2, FirstName: "Grace", RoleType: models.RoleMentor, Skills: []string{"sql"}},
		},
	}
	svc := newUserService(store)

	resp, err := svc.ListMentors(context.Background(), nil, 1, 10)
	if err != nil {
		t.Fatalf("list mentors: %v", err)
	}
	if len(resp.Mentors) != 2 {
		t.Fatalf("expected 2 mentors, got %d", len(resp.Mentors))
	}
	if resp.Pagination.TotalItems != 2 {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
}
