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
	"github.com/edulink/mentorhub/internal/pkg/dberrors"
	"github.com/edulink/mentorhub/internal/pkg/logger"
)

const userColumns = "id, email, password, first_name, last_name, role_type, bio, skills, is_active, last_login_at, created_at, updated_at"

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.FirstName,
		&u.LastName,
		&u.RoleType,
		&u.Bio,
		&u.Skills,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, password, first_name, last_name, role_type, bio, skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.RoleType,
		user.Bio,
		user.Skills,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return user.ID, nil
}

// FindByID retrieves a user by id
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}

	return user, nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName *string, bio *string) error {
	builder := r.sb.Update("users").Set("updated_at", time.Now()).Where(squirrel.Eq{"id": id})

	if firstName != nil {
		builder = builder.Set("first_name", *firstName)
	}
	if lastName != nil {
		builder = builder.Set("last_name", *lastName)
	}
	if bio != nil {
		builder = builder.Set("bio", *bio)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateSkills replaces the skill tags of a user
func (r *UserRepository) UpdateSkills(ctx context.Context, id int64, skills []string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET skills = $1, updated_at = $2 WHERE id = $3`,
		skills, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating skills: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin stamps the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Failed to update last login")
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// ListMentors retrieves active users with the MENTOR role, optionally
// filtered by a skill tag, with pagination
func (r *UserRepository) ListMentors(ctx context.Context, skill *string, offset uint64, limit int) ([]*models.User, int64, error) {
	countBuilder := r.sb.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"role_type": models.RoleMentor, "is_active": true})

	listBuilder := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"role_type": models.RoleMentor, "is_active": true}).
		OrderBy("id ASC").
		Offset(offset).
		Limit(uint64(limit))

	if skill != nil && *skill != "" {
		countBuilder = countBuilder.Where("? = ANY(skills)", *skill)
		listBuilder = listBuilder.Where("? = ANY(skills)", *skill)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build mentor count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting mentors: %w", err)
	}

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build mentor list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing mentors: %w", err)
	}
	defer rows.Close()

	var mentors []*models.User
	for rows.Next() {
		mentor, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning mentor row: %w", err)
		}
		mentors = append(mentors, mentor)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating mentor rows: %w", err)
	}

	return mentors, total, nil
}

// MentorMatch is a mentor candidate with its tag overlap count
type MentorMatch struct {
	User         *models.User
	OverlapCount int
}

// FindMatchingMentors returns up to limit active mentors whose skill set
// intersects the given tags, excluding excludeID if non-nil. Ordered by
// overlap count descending, then id ascending, for a deterministic result.
func (r *UserRepository) FindMatchingMentors(ctx context.Context, tags []string, excludeID *int64, limit int) ([]MentorMatch, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			cardinality(ARRAY(SELECT unnest(skills) INTERSECT SELECT unnest($1::text[]))) AS overlap_count
		FROM users
		WHERE role_type = $2
		  AND is_active = TRUE
		  AND skills && $1::text[]
		  AND ($3::bigint IS NULL OR id <> $3)
		ORDER BY overlap_count DESC, id ASC
		LIMIT $4
	`, userColumns)

	rows, err := r.db.Query(ctx, query, tags, models.RoleMentor, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying matching mentors: %w", err)
	}
	defer rows.Close()

	var matches []MentorMatch
	for rows.Next() {
		var u models.User
		var overlap int
		err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.Password,
			&u.FirstName,
			&u.LastName,
			&u.RoleType,
			&u.Bio,
			&u.Skills,
			&u.IsActive,
			&u.LastLoginAt,
			&u.CreatedAt,
			&u.UpdatedAt,
			&overlap,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning matching mentor row: %w", err)
		}
		matches = append(matches, MentorMatch{User: &u, OverlapCount: overlap})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matching mentor rows: %w", err)
	}

	return matches, nil
}
