package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
)

// ProblemRepository handles database operations for problems
type ProblemRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProblemRepository creates a new ProblemRepository
func NewProblemRepository(db *pgxpool.Pool) *ProblemRepository {
	return &ProblemRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new problem with status OPEN
func (r *ProblemRepository) Create(ctx context.Context, problem *models.Problem) (int64, error) {
	query := `
		INSERT INTO problems (student_id, title, description, tags, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		problem.StudentID,
		problem.Title,
		problem.Description,
		problem.Tags,
		problem.Status,
	).Scan(&problem.ID, &problem.CreatedAt, &problem.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating problem: %w", err)
	}

	return problem.ID, nil
}

// GetByID retrieves a problem by id
func (r *ProblemRepository) GetByID(ctx context.Context, id int64) (*models.Problem, error) {
	query := `
		SELECT id, student_id, title, description, tags, status, mentor_id, created_at, updated_at
		FROM problems
		WHERE id = $1
	`

	var p models.Problem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.StudentID,
		&p.Title,
		&p.Description,
		&p.Tags,
		&p.Status,
		&p.MentorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProblemNotFound
		}
		return nil, fmt.Errorf("error retrieving problem: %w", err)
	}

	return &p, nil
}

// List retrieves problems with optional filters and pagination, joined with
// their student and mentor summaries
func (r *ProblemRepository) List(
	ctx context.Context,
	status *string,
	tag *string,
	studentID *int64,
	mentorID *int64,
	offset uint64,
	limit int,
) ([]*models.Problem, int64, error) {
	applyFilters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if status != nil && *status != "" {
			b = b.Where(squirrel.Eq{"p.status": *status})
		}
		if tag != nil && *tag != "" {
			b = b.Where("? = ANY(p.tags)", *tag)
		}
		if studentID != nil {
			b = b.Where(squirrel.Eq{"p.student_id": *studentID})
		}
		if mentorID != nil {
			b = b.Where(squirrel.Eq{"p.mentor_id": *mentorID})
		}
		return b
	}

	countSQL, countArgs, err := applyFilters(
		r.sb.Select("COUNT(*)").From("problems p"),
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build problem count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting problems: %w", err)
	}

	listSQL, listArgs, err := applyFilters(
		r.sb.Select(
			"p.id", "p.student_id", "p.title", "p.description", "p.tags", "p.status", "p.mentor_id", "p.created_at", "p.updated_at",
			"s.first_name", "s.last_name", "s.role_type",
			"m.id", "m.first_name", "m.last_name", "m.role_type",
		).
			From("problems p").
			Join("users s ON p.student_id = s.id").
			LeftJoin("users m ON p.mentor_id = m.id").
			OrderBy("p.created_at DESC").
			Offset(offset).
			Limit(uint64(limit)),
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build problem list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing problems: %w", err)
	}
	defer rows.Close()

	var problems []*models.Problem
	for rows.Next() {
		var p models.Problem
		var student models.User
		var mentorUserID *int64
		var mentorFirst, mentorLast *string
		var mentorRole *models.RoleType

		err := rows.Scan(
			&p.ID,
			&p.StudentID,
			&p.Title,
			&p.Description,
			&p.Tags,
			&p.Status,
			&p.MentorID,
			&p.CreatedAt,
			&p.UpdatedAt,
			&student.FirstName,
			&student.LastName,
			&student.RoleType,
			&mentorUserID,
			&mentorFirst,
			&mentorLast,
			&mentorRole,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning problem row: %w", err)
		}

		student.ID = p.StudentID
		p.Student = &student

		if mentorUserID != nil {
			mentor := models.User{ID: *mentorUserID}
			if mentorFirst != nil {
				mentor.FirstName = *mentorFirst
			}
			if mentorLast != nil {
				mentor.LastName = *mentorLast
			}
			if mentorRole != nil {
				mentor.RoleType = *mentorRole
			}
			p.Mentor = &mentor
		}

		problems = append(problems, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating problem rows: %w", err)
	}

	return problems, total, nil
}

// AssignMentor sets the mentor and moves the problem to IN_PROGRESS.
// The WHERE clause only matches an unassigned problem or one already
// assigned to the same mentor, so first-assignment-wins is enforced by the
// database rather than in-process locking. Returns true if a row changed.
func (r *ProblemRepository) AssignMentor(ctx context.Context, problemID, mentorID int64) (bool, error) {
	query := `
		UPDATE problems
		SET mentor_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND (mentor_id IS NULL OR mentor_id = $1)
	`

	result, err := r.db.Exec(ctx, query, mentorID, models.ProblemStatusInProgress, time.Now(), problemID)
	if err != nil {
		return false, fmt.Errorf("error assigning mentor: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// UpdateContent updates the author-editable fields of a problem
func (r *ProblemRepository) UpdateContent(ctx context.Context, id int64, title, description *string, tags []string) error {
	builder := r.sb.Update("problems").Set("updated_at", time.Now()).Where(squirrel.Eq{"id": id})

	if title != nil {
		builder = builder.Set("title", *title)
	}
	if description != nil {
		builder = builder.Set("description", *description)
	}
	if tags != nil {
		builder = builder.Set("tags", tags)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update problem query: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating problem: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrProblemNotFound
	}

	return nil
}

// UpdateStatus sets the lifecycle status of a problem
func (r *ProblemRepository) UpdateStatus(ctx context.Context, id int64, status models.ProblemStatus) error {
	result, err := r.db.Exec(ctx,
		`UPDATE problems SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating problem status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrProblemNotFound
	}

	return nil
}
