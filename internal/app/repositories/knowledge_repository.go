package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
)

// KnowledgeRepository handles database operations for knowledge items
type KnowledgeRepository struct {
	db *pgxpool.Pool
}

// NewKnowledgeRepository creates a new KnowledgeRepository
func NewKnowledgeRepository(db *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

const knowledgeColumns = `id, title, source_ref, source_type, status, content, job_id, created_by, created_at, updated_at`

func scanKnowledgeItem(row pgx.Row) (*models.KnowledgeItem, error) {
	var item models.KnowledgeItem
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.SourceRef,
		&item.SourceType,
		&item.Status,
		&item.Content,
		&item.JobID,
		&item.CreatedBy,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new knowledge item in PENDING status
func (r *KnowledgeRepository) Create(ctx context.Context, item *models.KnowledgeItem) (int64, error) {
	query := `
		INSERT INTO knowledge_items (title, source_ref, source_type, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		item.Title,
		item.SourceRef,
		item.SourceType,
		item.Status,
		item.CreatedBy,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating knowledge item: %w", err)
	}

	return item.ID, nil
}

// GetByID retrieves a knowledge item by id
func (r *KnowledgeRepository) GetByID(ctx context.Context, id int64) (*models.KnowledgeItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM knowledge_items WHERE id = $1`, knowledgeColumns)

	item, err := scanKnowledgeItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrKnowledgeItemNotFound
		}
		return nil, fmt.Errorf("error retrieving knowledge item: %w", err)
	}

	return item, nil
}

// List retrieves knowledge items newest first with pagination
func (r *KnowledgeRepository) List(ctx context.Context, page, pageSize int) ([]*models.KnowledgeItem, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting knowledge items: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	query := fmt.Sprintf(`
		SELECT %s FROM knowledge_items
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, knowledgeColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing knowledge items: %w", err)
	}
	defer rows.Close()

	var items []*models.KnowledgeItem
	for rows.Next() {
		item, err := scanKnowledgeItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning knowledge item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating knowledge items: %w", err)
	}

	return items, total, nil
}

// SetJobID links an enrichment job to the item
func (r *KnowledgeRepository) SetJobID(ctx context.Context, id, jobID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE knowledge_items SET job_id = $1, updated_at = NOW() WHERE id = $2`, jobID, id)
	if err != nil {
		return fmt.Errorf("error setting knowledge job id: %w", err)
	}
	return nil
}

// MarkProcessing transitions PENDING -> PROCESSING. Returns false when the
// item was not in PENDING, keeping the state machine forward-only even if a
// stale job is replayed.
func (r *KnowledgeRepository) MarkProcessing(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE knowledge_items
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.KnowledgeStatusProcessing, id, models.KnowledgeStatusPending)
	if err != nil {
		return false, fmt.Errorf("error marking knowledge item processing: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Complete stores the enrichment result and transitions PROCESSING -> COMPLETED
func (r *KnowledgeRepository) Complete(ctx context.Context, id int64, content *models.KnowledgeContent) error {
	result, err := r.db.Exec(ctx, `
		UPDATE knowledge_items
		SET status = $1, content = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.KnowledgeStatusCompleted, content, id, models.KnowledgeStatusProcessing)
	if err != nil {
		return fmt.Errorf("error completing knowledge item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrKnowledgeItemNotFound
	}

	return nil
}

// Fail transitions PROCESSING -> FAILED without storing partial content
func (r *KnowledgeRepository) Fail(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE knowledge_items
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.KnowledgeStatusFailed, id, models.KnowledgeStatusProcessing)
	if err != nil {
		return fmt.Errorf("error failing knowledge item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrKnowledgeItemNotFound
	}

	return nil
}
