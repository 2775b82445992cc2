package dto

import (
	"time"

	"github.com/edulink/mentorhub/internal/app/models"
)

// CreateAnnouncementRequest represents a manually created announcement
type CreateAnnouncementRequest struct {
	Title       string  `json:"title" binding:"required" example:"Platform maintenance window"`
	Description *string `json:"description,omitempty"`
	URL         *string `json:"url,omitempty"`
	Category    string  `json:"category" binding:"required,oneof=GENERAL EVENTS TECHNEWS" example:"GENERAL"`
	EventID     *int64  `json:"eventId,omitempty"`
}

// AnnouncementFilterRequest carries listing filters
type AnnouncementFilterRequest struct {
	Category *string
	Page     int
	PageSize int
}

// AnnouncementResponse represents an announcement
type AnnouncementResponse struct {
	ID          int64     `json:"id" example:"1"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Source      *string   `json:"source,omitempty" example:"HackerNews"`
	Category    string    `json:"category" example:"TECHNEWS"`
	EventID     *int64    `json:"eventId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnnouncementListResponse is a paginated announcement listing
type AnnouncementListResponse struct {
	Announcements []AnnouncementResponse `json:"announcements"`
	Pagination    PaginationInfo         `json:"pagination"`
}

// TechNewsRefreshResponse reports the outcome of an ingestion run
type TechNewsRefreshResponse struct {
	Fetched  int `json:"fetched" example:"20"`
	Inserted int `json:"inserted" example:"5"`
	Skipped  int `json:"skipped" example:"15"`
}

// ToAnnouncementResponse converts an announcement model to its response form
func ToAnnouncementResponse(a *models.Announcement) AnnouncementResponse {
	if a == nil {
		return AnnouncementResponse{}
	}
	return AnnouncementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		Source:      a.Source,
		Category:    string(a.Category),
		EventID:     a.EventID,
		CreatedAt:   a.CreatedAt,
	}
}
