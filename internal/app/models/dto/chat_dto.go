package dto

import (
	"time"

	"github.com/edulink/mentorhub/internal/app/models"
)

// CreateMessageRequest represents a new chat message
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required" example:"Have you tried pprof?"`
}

// MessageResponse represents a chat message with its sender summary
type MessageResponse struct {
	ID             int64          `json:"id" example:"42"`
	ConversationID int64          `json:"conversationId" example:"3"`
	Content        string         `json:"content"`
	Sender         *SenderSummary `json:"sender,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// ConversationResponse is the message history of a problem's conversation,
// ordered ascending by creation time
type ConversationResponse struct {
	ProblemID int64             `json:"problemId"`
	Messages  []MessageResponse `json:"messages"`
}

// ToMessageResponse converts a message model to its response form
func ToMessageResponse(m *models.Message) MessageResponse {
	if m == nil {
		return MessageResponse{}
	}
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		Sender:         ToSenderSummary(m.Sender),
		CreatedAt:      m.CreatedAt,
	}
}
