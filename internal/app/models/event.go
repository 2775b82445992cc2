package models

import "time"

// Event represents a platform event organized by a user
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Location    string    `json:"location" db:"location"`
	OrganizerID int64     `json:"organizerId" db:"organizer_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Organizer *User `json:"organizer,omitempty"`
}

// IsPast reports whether the event date is before the given instant.
// There is no stored flag; the split is recomputed on every listing.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// EventRegistration represents a user registered for an event,
// unique per (user, event) pair
type EventRegistration struct {
	ID           int64     `json:"id" db:"id"`
	EventID      int64     `json:"eventId" db:"event_id"`
	UserID       int64     `json:"userId" db:"user_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
