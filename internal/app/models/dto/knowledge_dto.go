package dto

import (
	"time"

	"github.com/edulink/mentorhub/internal/app/models"
)

// CreateKnowledgeItemRequest represents a new knowledge base submission
type CreateKnowledgeItemRequest struct {
	Title      string `json:"title" binding:"required" example:"Designing Data-Intensive Applications, ch. 5"`
	SourceRef  string `json:"sourceRef" binding:"required" example:"https://example.com/ddia-ch5"`
	SourceType string `json:"sourceType" binding:"required,oneof=URL ARTICLE VIDEO" example:"URL"`
}

// KnowledgeItemResponse represents a knowledge base item
type KnowledgeItemResponse struct {
	ID         int64                    `json:"id" example:"1"`
	Title      string                   `json:"title"`
	SourceRef  string                   `json:"sourceRef"`
	SourceType string                   `json:"sourceType" example:"URL"`
	Status     string                   `json:"status" example:"PENDING" enums:"PENDING,PROCESSING,COMPLETED,FAILED"`
	Content    *models.KnowledgeContent `json:"content,omitempty"`
	JobID      *int64                   `json:"jobId,omitempty" example:"17"`
	CreatedBy  int64                    `json:"createdBy"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// KnowledgeListResponse is a paginated knowledge base listing
type KnowledgeListResponse struct {
	Items      []KnowledgeItemResponse `json:"items"`
	Pagination PaginationInfo          `json:"pagination"`
}

// EnrichmentJobResponse exposes the state of an enrichment job
type EnrichmentJobResponse struct {
	ID        int64      `json:"id" example:"17"`
	Type      string     `json:"type" example:"knowledge_enrich"`
	Status    string     `json:"status" example:"done"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"lastError,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ToKnowledgeItemResponse converts a knowledge item model to its response form
func ToKnowledgeItemResponse(item *models.KnowledgeItem) KnowledgeItemResponse {
	if item == nil {
		return KnowledgeItemResponse{}
	}
	return KnowledgeItemResponse{
		ID:         item.ID,
		Title:      item.Title,
		SourceRef:  item.SourceRef,
		SourceType: string(item.SourceType),
		Status:     string(item.Status),
		Content:    item.Content,
		JobID:      item.JobID,
		CreatedBy:  item.CreatedBy,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
