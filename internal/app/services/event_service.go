package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/auth"
	"github.com/edulink/mentorhub/internal/pkg/validation"
)

// EventStore is the event persistence surface
type EventStore interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListAll(ctx context.Context) ([]*models.Event, map[int64]int64, error)
	Delete(ctx context.Context, id int64) error
	Register(ctx context.Context, reg *models.EventRegistration) error
	CountRegistrations(ctx context.Context, eventID int64) (int64, error)
}

// EventService handles events and registrations
type EventService struct {
	eventRepo EventStore
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(eventRepo EventStore, logger zerolog.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Create adds a new event organized by the caller. The date must be in the
// future.
func (s *EventService) Create(ctx context.Context, identity auth.Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	title := strings.TrimSpace(req.Title)
	if len(title) < validation.EventTitleMinLength {
		return nil, apperrors.NewValidationError("event title is too short")
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, apperrors.NewValidationError("location is required")
	}
	if !req.Date.After(s.now()) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("event date %s must be in the future", req.Date.Format(time.RFC3339)))
	}

	event := &models.Event{
		Title:       title,
		Description: req.Description,
		Date:        req.Date,
		Location:    strings.TrimSpace(req.Location),
		OrganizerID: identity.UserID,
	}

	if _, err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("event_id", event.ID).Int64("organizer_id", identity.UserID).Msg("Event created")
	resp := dto.ToEventResponse(event, 0)
	return &resp, nil
}

// List returns every event split into upcoming and past relative to the
// request time. The split is recomputed per call, never stored.
func (s *EventService) List(ctx context.Context) (*dto.EventListResponse, error) {
	events, counts, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &dto.EventListResponse{
		Upcoming: []dto.EventResponse{},
		Past:     []dto.EventResponse{},
	}
	for _, e := range events {
		er := dto.ToEventResponse(e, counts[e.ID])
		if e.IsPast(now) {
			resp.Past = append(resp.Past, er)
		} else {
			resp.Upcoming = append(resp.Upcoming, er)
		}
	}

	return resp, nil
}

// Delete removes an event. Only the organizer or an admin may cancel it.
func (s *EventService) Delete(ctx context.Context, identity auth.Identity, eventID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != identity.UserID && !identity.IsAdmin() {
		return apperrors.NewForbiddenError("only the organizer can cancel the event")
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	s.logger.Info().Int64("event_id", eventID).Msg("Event deleted")
	return nil
}

// Register signs the caller up for an event. Repeated registration is
// idempotent and returns the original registration. Past events cannot be
// registered for.
func (s *EventService) Register(ctx context.Context, identity auth.Identity, eventID int64) (*dto.RegistrationResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID == identity.UserID {
		return nil, apperrors.NewForbiddenError("organizers cannot register for their own event")
	}
	if event.IsPast(s.now()) {
		return nil, apperrors.NewConflictError("cannot register for a past event")
	}

	reg := &models.EventRegistration{
		EventID: eventID,
		UserID:  identity.UserID,
	}
	if err := s.eventRepo.Register(ctx, reg); err != nil {
		return nil, err
	}

	return &dto.RegistrationResponse{
		EventID:      reg.EventID,
		UserID:       reg.UserID,
		RegisteredAt: reg.RegisteredAt,
	}, nil
}

var _ EventStore = (*repositories.EventRepository)(nil)
