package dto

import (
	"time"

	"github.com/edulink/mentorhub/internal/app/models"
)

// CreateEventRequest represents a new event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required" example:"Go meetup"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required" example:"2026-10-01T18:00:00Z"`
	Location    string    `json:"location" binding:"required" example:"Main hall"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID                int64          `json:"id" example:"1"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Date              time.Time      `json:"date"`
	Location          string         `json:"location"`
	OrganizerID       int64          `json:"organizerId"`
	Organizer         *SenderSummary `json:"organizer,omitempty"`
	RegistrationCount int64          `json:"registrationCount" example:"12"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// EventListResponse splits events into upcoming and past, computed against
// the request time
type EventListResponse struct {
	Upcoming []EventResponse `json:"upcoming"`
	Past     []EventResponse `json:"past"`
}

// RegistrationResponse confirms an event registration
type RegistrationResponse struct {
	EventID      int64     `json:"eventId"`
	UserID       int64     `json:"userId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// ToEventResponse converts an event model to its response form
func ToEventResponse(e *models.Event, registrationCount int64) EventResponse {
	if e == nil {
		return EventResponse{}
	}
	return EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Date:              e.Date,
		Location:          e.Location,
		OrganizerID:       e.OrganizerID,
		Organizer:         ToSenderSummary(e.Organizer),
		RegistrationCount: registrationCount,
		CreatedAt:         e.CreatedAt,
	}
}
