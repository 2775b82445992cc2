package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
)

// EventRepository handles database operations for events and registrations
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	query := `
		INSERT INTO events (title, description, date, location, organizer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.OrganizerID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating event: %w", err)
	}

	return event.ID, nil
}

// GetByID retrieves an event by id
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `
		SELECT id, title, description, date, location, organizer_id, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var e models.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Location,
		&e.OrganizerID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}

	return &e, nil
}

// ListAll retrieves every event with its organizer summary and registration
// count, ordered by date ascending. The upcoming/past split is computed by
// the service against request time, not stored.
func (r *EventRepository) ListAll(ctx context.Context) ([]*models.Event, map[int64]int64, error) {
	query := `
		SELECT e.id, e.title, e.description, e.date, e.location, e.organizer_id, e.created_at, e.updated_at,
			u.first_name, u.last_name, u.role_type,
			COUNT(er.id) AS registration_count
		FROM events e
		JOIN users u ON e.organizer_id = u.id
		LEFT JOIN event_registrations er ON er.event_id = e.id
		GROUP BY e.id, u.first_name, u.last_name, u.role_type
		ORDER BY e.date ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	counts := make(map[int64]int64)
	for rows.Next() {
		var e models.Event
		var organizer models.User
		var regCount int64

		err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.Date,
			&e.Location,
			&e.OrganizerID,
			&e.CreatedAt,
			&e.UpdatedAt,
			&organizer.FirstName,
			&organizer.LastName,
			&organizer.RoleType,
			&regCount,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning event row: %w", err)
		}

		organizer.ID = e.OrganizerID
		e.Organizer = &organizer
		counts[e.ID] = regCount
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, counts, nil
}

// Delete hard-deletes an event. Registrations cascade via the foreign key.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// Register upserts a registration for (user, event). The unique constraint on
// the pair plus ON CONFLICT DO NOTHING makes repeated registration idempotent:
// two calls leave exactly one row.
func (r *EventRepository) Register(ctx context.Context, reg *models.EventRegistration) error {
	query := `
		INSERT INTO event_registrations (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, reg.EventID, reg.UserID); err != nil {
		return fmt.Errorf("error registering for event: %w", err)
	}

	// Read back the row so the caller gets the original registration time on
	// repeat calls
	readQuery := `
		SELECT id, registered_at
		FROM event_registrations
		WHERE event_id = $1 AND user_id = $2
	`
	if err := r.db.QueryRow(ctx, readQuery, reg.EventID, reg.UserID).Scan(&reg.ID, &reg.RegisteredAt); err != nil {
		return fmt.Errorf("error reading registration: %w", err)
	}

	return nil
}

// CountRegistrations returns the number of registrations for an event
func (r *EventRepository) CountRegistrations(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return count, nil
}
