package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/app/repositories"
	"github.com/edulink/mentorhub/internal/pkg/apperrors"
	"github.com/edulink/mentorhub/internal/pkg/auth"
)

// ConversationStore is the chat persistence surface
type ConversationStore interface {
	GetByProblemAndParticipant(ctx context.Context, problemID, userID int64) (*models.Conversation, error)
	Create(ctx context.Context, conv *models.Conversation) (int64, error)
	CreateMessage(ctx context.Context, msg *models.Message) (int64, error)
	ListMessages(ctx context.Context, conversationID int64) ([]*models.Message, error)
}

// ProblemReader is the slice of problem access the chat service needs
type ProblemReader interface {
	GetByID(ctx context.Context, id int64) (*models.Problem, error)
}

// UserReader resolves sender summaries for freshly created messages
type UserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// ChatService handles per-problem conversations between student and mentor
type ChatService struct {
	convRepo    ConversationStore
	problemRepo ProblemReader
	userRepo    UserReader
	logger      zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(convRepo ConversationStore, problemRepo ProblemReader, userRepo UserReader, logger zerolog.Logger) *ChatService {
	return &ChatService{
		convRepo:    convRepo,
		problemRepo: problemRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// GetMessages returns the full message history of a problem's conversation
// for a participant. A problem whose conversation has not started yet yields
// an empty history rather than an error.
func (s *ChatService) GetMessages(ctx context.Context, identity auth.Identity, problemID int64) (*dto.ConversationResponse, error) {
	problem, err := s.problemRepo.GetByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if err := s.checkParticipant(problem, identity); err != nil {
		return nil, err
	}

	resp := &dto.ConversationResponse{
		ProblemID: problemID,
		Messages:  []dto.MessageResponse{},
	}

	conv, err := s.convRepo.GetByProblemAndParticipant(ctx, problemID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return resp, nil
	}

	messages, err := s.convRepo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, dto.ToMessageResponse(m))
	}

	return resp, nil
}

// SendMessage appends a message to the problem's conversation, creating the
// conversation lazily on the first message. Requires an assigned mentor and
// that the caller is the student or that mentor. Messages are immutable.
func (s *ChatService) SendMessage(ctx context.Context, identity auth.Identity, problemID int64, req *dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("message content cannot be empty")
	}

	problem, err := s.problemRepo.GetByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if problem.MentorID == nil {
		return nil, apperrors.NewResourceNotFoundError("no conversation exists for an unassigned problem")
	}
	if err := s.checkParticipant(problem, identity); err != nil {
		return nil, err
	}

	conv := &models.Conversation{
		ProblemID: problemID,
		StudentID: problem.StudentID,
		MentorID:  *problem.MentorID,
	}
	if _, err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       identity.UserID,
		Content:        content,
	}
	if _, err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if sender, err := s.userRepo.FindByID(ctx, identity.UserID); err == nil {
		msg.Sender = sender
	} else {
		s.logger.Warn().Err(err).Int64("user_id", identity.UserID).Msg("Failed to load message sender")
	}

	resp := dto.ToMessageResponse(msg)
	return &resp, nil
}

// checkParticipant limits chat access to the problem's student and its
// assigned mentor
func (s *ChatService) checkParticipant(problem *models.Problem, identity auth.Identity) error {
	if problem.StudentID == identity.UserID {
		return nil
	}
	if problem.MentorID != nil && *problem.MentorID == identity.UserID {
		return nil
	}
	return apperrors.NewForbiddenError("not a participant of this conversation")
}

var _ ConversationStore = (*repositories.ConversationRepository)(nil)
