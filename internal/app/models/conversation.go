package models

import "time"

// Conversation links exactly one student, one mentor and one problem.
// Created lazily on the first chat message for a problem.
type Conversation struct {
	ID        int64     `json:"id" db:"id"`
	ProblemID int64     `json:"problemId" db:"problem_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	MentorID  int64     `json:"mentorId" db:"mentor_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Message represents a chat message within a conversation.
// Messages are immutable once created.
type Message struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID int64     `json:"conversationId" db:"conversation_id"`
	SenderID       int64     `json:"senderId" db:"sender_id"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Sender *User `json:"sender,omitempty"`
}
