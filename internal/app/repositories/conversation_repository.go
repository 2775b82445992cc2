package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/edulink/mentorhub/internal/app/models"
)

// ConversationRepository handles database operations for conversations and messages
type ConversationRepository struct {
	db *pgxpool.Pool
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetByProblemAndParticipant finds the conversation for a problem where the
// given user is either the student or the mentor. Returns nil, nil when no
// conversation exists yet.
func (r *ConversationRepository) GetByProblemAndParticipant(ctx context.Context, problemID, userID int64) (*models.Conversation, error) {
	query := `
		SELECT id, problem_id, student_id, mentor_id, created_at
		FROM conversations
		WHERE problem_id = $1 AND (student_id = $2 OR mentor_id = $2)
	`

	var c models.Conversation
	err := r.db.QueryRow(ctx, query, problemID, userID).Scan(
		&c.ID,
		&c.ProblemID,
		&c.StudentID,
		&c.MentorID,
		&c.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}

	return &c, nil
}

// Create inserts a conversation for a problem. The unique constraint on
// (problem_id, student_id, mentor_id) guarantees at most one per triple; a
// concurrent duplicate insert resolves via ON CONFLICT to the existing row.
func (r *ConversationRepository) Create(ctx context.Context, conv *models.Conversation) (int64, error) {
	query := `
		INSERT INTO conversations (problem_id, student_id, mentor_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (problem_id, student_id, mentor_id) DO UPDATE SET problem_id = EXCLUDED.problem_id
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		conv.ProblemID,
		conv.StudentID,
		conv.MentorID,
	).Scan(&conv.ID, &conv.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating conversation: %w", err)
	}

	return conv.ID, nil
}

// CreateMessage appends a message to a conversation
func (r *ConversationRepository) CreateMessage(ctx context.Context, msg *models.Message) (int64, error) {
	query := `
		INSERT INTO messages (conversation_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		msg.ConversationID,
		msg.SenderID,
		msg.Content,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating message: %w", err)
	}

	return msg.ID, nil
}

// ListMessages retrieves all messages of a conversation ordered ascending by
// creation time, each joined with its sender summary
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID int64) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.content, m.created_at,
			u.first_name, u.last_name, u.role_type
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		var sender models.User

		err := rows.Scan(
			&m.ID,
			&m.ConversationID,
			&m.SenderID,
			&m.Content,
			&m.CreatedAt,
			&sender.FirstName,
			&sender.LastName,
			&sender.RoleType,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}

		sender.ID = m.SenderID
		m.Sender = &sender
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
