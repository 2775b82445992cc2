package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/pkg/helpers"
)

// AnnouncementRepository handles database operations for announcements
type AnnouncementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) (int64, error) {
	query := `
		INSERT INTO announcements (title, description, category, url, source, event_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		a.Title,
		a.Description,
		a.Category,
		a.URL,
		a.Source,
		a.EventID,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating announcement: %w", err)
	}

	return a.ID, nil
}

// List retrieves announcements newest first, optionally filtered by category
func (r *AnnouncementRepository) List(ctx context.Context, category *models.AnnouncementCategory, page, pageSize int) ([]*models.Announcement, int64, error) {
	withFilter := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if category != nil {
			b = b.Where(squirrel.Eq{"category": *category})
		}
		return b
	}

	countQuery, countArgs, err := withFilter(r.sb.Select("COUNT(*)").From("announcements")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building announcement count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting announcements: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	listQuery, listArgs, err := withFilter(r.sb.
		Select("id", "title", "description", "category", "url", "source", "event_id", "created_by", "created_at").
		From("announcements")).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building announcement list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.Category,
			&a.URL,
			&a.Source,
			&a.EventID,
			&a.CreatedBy,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning announcement: %w", err)
		}
		announcements = append(announcements, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating announcements: %w", err)
	}

	return announcements, total, nil
}

// ExistsTechNewsURL reports whether a TECHNEWS announcement with the given
// source URL already exists. Used to dedupe repeated feed refreshes.
func (r *AnnouncementRepository) ExistsTechNewsURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM announcements WHERE category = $1 AND url = $2
		)
	`, models.AnnouncementCategoryTechNews, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking announcement url: %w", err)
	}

	return exists, nil
}
