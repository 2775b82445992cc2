package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store abstracts job persistence so the pool can be tested without a database
type Store interface {
	Enqueue(ctx context.Context, j *Job) (int64, error)
	FetchNext(ctx context.Context) (*Job, error)
	UpdateJob(ctx context.Context, j *Job) error
	MoveToDeadLetter(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
}

// Repository is the Postgres-backed job store
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new job Repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Enqueue inserts a job and returns the new id
func (r *Repository) Enqueue(ctx context.Context, j *Job) (int64, error) {
	if j.MaxAttempts == 0 {
		j.MaxAttempts = 5
	}
	if j.ScheduledAt.IsZero() {
		j.ScheduledAt = time.Now()
	}

	query := `
		INSERT INTO jobs (type, payload, status, attempts, max_attempts, priority, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		j.Type, j.Payload, StatusQueued, j.Attempts, j.MaxAttempts, j.Priority, j.ScheduledAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error enqueuing job: %w", err)
	}

	j.ID = id
	return id, nil
}

// FetchNext claims the next runnable job. FOR UPDATE SKIP LOCKED lets several
// workers poll the same table without handing out the same job twice. Returns
// nil, nil when no job is ready.
func (r *Repository) FetchNext(ctx context.Context) (*Job, error) {
	query := `
		SELECT id, type, payload, status, attempts, max_attempts, priority,
			scheduled_at, next_try_at, last_error, created_at, updated_at
		FROM jobs
		WHERE status IN ($1, $2)
			AND (next_try_at IS NULL OR next_try_at <= NOW())
			AND scheduled_at <= NOW()
		ORDER BY priority ASC, scheduled_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting fetch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var j Job
	err = tx.QueryRow(ctx, query, StatusQueued, StatusRetry).Scan(
		&j.ID, &j.Type, &j.Payload, &j.Status, &j.Attempts, &j.MaxAttempts, &j.Priority,
		&j.ScheduledAt, &j.NextTryAt, &j.LastError, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching next job: %w", err)
	}

	// Mark running inside the claiming transaction so the row stays ours
	_, err = tx.Exec(ctx,
		`UPDATE jobs SET status = 'running', updated_at = NOW() WHERE id = $1`, j.ID)
	if err != nil {
		return nil, fmt.Errorf("error claiming job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing job claim: %w", err)
	}

	return &j, nil
}

// UpdateJob persists status, attempts, next_try_at and last_error
func (r *Repository) UpdateJob(ctx context.Context, j *Job) error {
	query := `
		UPDATE jobs
		SET status = $1, attempts = $2, next_try_at = $3, last_error = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, j.Status, j.Attempts, j.NextTryAt, j.LastError, j.ID)
	if err != nil {
		return fmt.Errorf("error updating job: %w", err)
	}
	return nil
}

// MoveToDeadLetter copies a job to dead_letter_jobs and deletes the original
func (r *Repository) MoveToDeadLetter(ctx context.Context, j *Job) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting dead-letter transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO dead_letter_jobs (job_id, type, payload, attempts, last_error, failed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := tx.Exec(ctx, insert, j.ID, j.Type, j.Payload, j.Attempts, j.LastError); err != nil {
		return fmt.Errorf("error inserting dead-letter job: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, j.ID); err != nil {
		return fmt.Errorf("error deleting failed job: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a job by id, checking the dead-letter table when the job
// has already been moved there.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Job, error) {
	query := `
		SELECT id, type, payload, status, attempts, max_attempts, priority,
			scheduled_at, next_try_at, last_error, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	var j Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.Type, &j.Payload, &j.Status, &j.Attempts, &j.MaxAttempts, &j.Priority,
		&j.ScheduledAt, &j.NextTryAt, &j.LastError, &j.CreatedAt, &j.UpdatedAt,
	)
	if err == nil {
		return &j, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error retrieving job: %w", err)
	}

	deadQuery := `
		SELECT job_id, type, payload, attempts, last_error, failed_at
		FROM dead_letter_jobs
		WHERE job_id = $1
	`
	var failedAt time.Time
	err = r.db.QueryRow(ctx, deadQuery, id).Scan(
		&j.ID, &j.Type, &j.Payload, &j.Attempts, &j.LastError, &failedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("error retrieving dead-letter job: %w", err)
	}

	j.Status = StatusFailed
	j.UpdatedAt = failedAt
	return &j, nil
}
