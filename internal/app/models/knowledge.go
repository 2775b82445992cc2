package models

import "time"

// KnowledgeStatus represents the enrichment state of a knowledge base item.
// Transitions are strictly forward: PENDING -> PROCESSING -> COMPLETED/FAILED.
type KnowledgeStatus string

const (
	KnowledgeStatusPending    KnowledgeStatus = "PENDING"
	KnowledgeStatusProcessing KnowledgeStatus = "PROCESSING"
	KnowledgeStatusCompleted  KnowledgeStatus = "COMPLETED"
	KnowledgeStatusFailed     KnowledgeStatus = "FAILED"
)

// CanTransition reports whether moving from s to next is a legal forward step.
func (s KnowledgeStatus) CanTransition(next KnowledgeStatus) bool {
	switch s {
	case KnowledgeStatusPending:
		return next == KnowledgeStatusProcessing
	case KnowledgeStatusProcessing:
		return next == KnowledgeStatusCompleted || next == KnowledgeStatusFailed
	}
	return false
}

// KnowledgeSourceType classifies where a knowledge item came from
type KnowledgeSourceType string

const (
	KnowledgeSourceURL     KnowledgeSourceType = "URL"
	KnowledgeSourceArticle KnowledgeSourceType = "ARTICLE"
	KnowledgeSourceVideo   KnowledgeSourceType = "VIDEO"
)

// ValidKnowledgeSourceType reports whether the given value is known.
func ValidKnowledgeSourceType(t KnowledgeSourceType) bool {
	switch t {
	case KnowledgeSourceURL, KnowledgeSourceArticle, KnowledgeSourceVideo:
		return true
	}
	return false
}

// KnowledgeContent is the structured content produced by the AI enrichment.
// Stored as a jsonb column; nil until enrichment completes.
type KnowledgeContent struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Topics    []string `json:"topics"`
}

// KnowledgeItem represents a user-submitted source queued for summarization
type KnowledgeItem struct {
	ID         int64               `json:"id" db:"id"`
	Title      string              `json:"title" db:"title"`
	SourceRef  string              `json:"sourceRef" db:"source_ref"`
	SourceType KnowledgeSourceType `json:"sourceType" db:"source_type"`
	Status     KnowledgeStatus     `json:"status" db:"status"`
	Content    *KnowledgeContent   `json:"content,omitempty" db:"content"`
	JobID      *int64              `json:"jobId,omitempty" db:"job_id"` // Enrichment job, retrievable by the caller
	CreatedBy  int64               `json:"createdBy" db:"created_by"`
	CreatedAt  time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time           `json:"updatedAt" db:"updated_at"`
}
