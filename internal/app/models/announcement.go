package models

import "time"

// AnnouncementCategory classifies announcements
type AnnouncementCategory string

const (
	AnnouncementCategoryGeneral  AnnouncementCategory = "GENERAL"
	AnnouncementCategoryEvents   AnnouncementCategory = "EVENTS"
	AnnouncementCategoryTechNews AnnouncementCategory = "TECHNEWS"
)

// ValidAnnouncementCategory reports whether the given value is known.
func ValidAnnouncementCategory(c AnnouncementCategory) bool {
	switch c {
	case AnnouncementCategoryGeneral, AnnouncementCategoryEvents, AnnouncementCategoryTechNews:
		return true
	}
	return false
}

// Announcement represents a platform-wide news/update item
type Announcement struct {
	ID          int64                `json:"id" db:"id"`
	Title       string               `json:"title" db:"title"`
	Description *string              `json:"description,omitempty" db:"description"`
	URL         *string              `json:"url,omitempty" db:"url"`
	Source      *string              `json:"source,omitempty" db:"source"`
	Category    AnnouncementCategory `json:"category" db:"category"`
	EventID     *int64               `json:"eventId,omitempty" db:"event_id"`
	CreatedBy   *int64               `json:"createdBy,omitempty" db:"created_by"` // Nil for ingested items
	CreatedAt   time.Time            `json:"createdAt" db:"created_at"`

	// Related entities
	Event *Event `json:"event,omitempty"`
}
