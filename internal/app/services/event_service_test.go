package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/services"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
)

type fakeEventStore struct {
	events        map[int64]*models.Event
	registrations map[int64]map[int64]time.Time
	deleted       []int64
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	m := make(map[int64]*models.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return &fakeEventStore{
		events:        m,
		registrations: make(map[int64]map[int64]time.Time),
	}
}

func (f *fakeEventStore) Create(ctx context.Context, event *models.Event) (int64, error) {
	event.ID = int64(len(f.events) + 1)
	f.events[event.ID] = event
	return event.ID, nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventStore) ListAll(ctx context.Context) ([]*models.Event, map[int64]int64, error) {
	out := make([]*models.Event, 0, len(f.events))
	counts := make(map[int64]int64)
	for _, e := range f.events {
		out = append(out, e)
		counts[e.ID] = int64(len(f.registrations[e.ID]))
	}
	return out, counts, nil
}

func (f *fakeEventStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEventStore) Register(ctx context.Context, reg *models.EventRegistration) error {
	regs, ok := f.registrations[reg.EventID]
	if !ok {
		regs = make(map[int64]time.Time)
		f.registrations[reg.EventID] = regs
	}
	// idempotent: keep the original registration time
	at, ok := regs[reg.UserID]
	if !ok {
		at = time.Now()
		regs[reg.UserID] = at
	}
	reg.RegisteredAt = at
	return nil
}

func (f *fakeEventStore) CountRegistrations(ctx context.Context, eventID int64) (int64, error) {
	return int64(len(f.registrations[eventID])), nil
}

func TestCreateEventRejectsPastDate(t *testing.T) {
	svc := services.NewEventService(newFakeEventStore(), zerolog.Nop())
	past := time.Date(2020, 3, 14, 15, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), student(10), &dto.CreateEventRequest{
		Title:    "Go meetup",
		Date:     past,
		Location: "Main hall",
	})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// the rejected date must be named in the message
	if !strings.Contains(err.Error(), past.Format(time.RFC3339)) {
		t.Fatalf("error should name the rejected date, got %q", err.Error())
	}
}

func TestCreateEventRequiresTitleAndLocation(t *testing.T) {
	svc := services.NewEventService(newFakeEventStore(), zerolog.Nop())
	future := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(context.Background(), student(10), &dto.CreateEventRequest{
		Title: "Go", Date: future, Location: "Main hall",
	})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for short title, got %v", err)
	}

	_, err = svc.Create(context.Background(), student(10), &dto.CreateEventRequest{
		Title: "Go meetup", Date: future, Location: "  ",
	})
	if !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for missing location, got %v", err)
	}
}

func TestListEventsSplitsUpcomingAndPast(t *testing.T) {
	store := newFakeEventStore(
		&models.Event{ID: 1, Title: "Old", Date: time.Now().Add(-48 * time.Hour), OrganizerID: 1},
		&models.Event{ID: 2, Title: "Soon", Date: time.Now().Add(48 * time.Hour), OrganizerID: 1},
	)
	svc := services.NewEventService(store, zerolog.Nop())

	resp, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Upcoming) != 1 || resp.Upcoming[0].Title != "Soon" {
		t.Fatalf("unexpected upcoming set: %+v", resp.Upcoming)
	}
	if len(resp.Past) != 1 || resp.Past[0].Title != "Old" {
		t.Fatalf("unexpected past set: %+v", resp.Past)
	}
}

func TestRegisterOrganizerForbidden(t *testing.T) {
	store := newFakeEventStore(&models.Event{
		ID: 1, Title: "Go meetup", Date: time.Now().Add(24 * time.Hour), OrganizerID: 10,
	})
	svc := services.NewEventService(store, zerolog.Nop())

	_, err := svc.Register(context.Background(), student(10), 1)
	if !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected forbidden for organizer self-registration, got %v", err)
	}
	if len(store.registrations[1]) != 0 {
		t.Fatalf("no registration row should exist")
	}
}

func TestRegisterPastEventConflict(t *testing.T) {
	store := newFakeEventStore(&models.Event{
		ID: 1, Title: "Go meetup", Date: time.Now().Add(-time.Hour), OrganizerID: 10,
	})
	svc := services.NewEventService(store, zerolog.Nop())

	_, err := svc.Register(context.Background(), student(20), 1)
	if !apperrors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict for past event, got %v", err)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	store := newFakeEventStore(&models.Event{
		ID: 1, Title: "Go meetup", Date: time.Now().Add(24 * time.Hour), OrganizerID: 10,
	})
	svc := services.NewEventService(store, zerolog.Nop())

	first, err := svc.Register(context.Background(), student(20), 1)
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}

	second, err := svc.Register(context.Background(), student(20), 1)
	if err != nil {
		t.Fatalf("repeated registration must succeed: %v", err)
	}
	if !second.RegisteredAt.Equal(first.RegisteredAt) {
		t.Fatalf("repeated registration must return the original time")
	}
	if len(store.registrations[1]) != 1 {
		t.Fatalf("expected exactly one registration row, got %d", len(store.registrations[1]))
	}
}

func TestDeleteEventOnlyOrganizerOrAdmin(t *testing.T) {
	ctx := context.Background()
	store := newFakeEventStore(&models.Event{
		ID: 1, Title: "Go meetup", Date: time.Now().Add(24 * time.Hour), OrganizerID: 10,
	})
	svc := services.NewEventService(store, zerolog.Nop())

	if err := svc.Delete(ctx, student(20), 1); !apperrors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected forbidden for non-organizer, got %v", err)
	}

	if err := svc.Delete(ctx, student(10), 1); err != nil {
		t.Fatalf("organizer delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 1 {
		t.Fatalf("event was not deleted")
	}
}
