package dto

import (
	"time"

	"github.com/edulink/mentorhub/internal/app/models"
)

// CreateProblemRequest represents a new problem submission
type CreateProblemRequest struct {
	Title       string   `json:"title" binding:"required" example:"Stuck on goroutine deadlock"`
	Description string   `json:"description" binding:"required"`
	Tags        []string `json:"tags"`
}

// UpdateProblemRequest is a partial problem update. Presence of Status routes
// the patch to the mentor-only branch; its absence to the author-only branch.
type UpdateProblemRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      *string  `json:"status,omitempty" enums:"OPEN,IN_PROGRESS,RESOLVED,CLOSED"`
}

// HasStatus reports whether the patch carries a status change.
func (r *UpdateProblemRequest) HasStatus() bool {
	return r.Status != nil
}

// ProblemFilterRequest carries listing filters
type ProblemFilterRequest struct {
	Status    *string
	Tag       *string
	StudentID *int64
	MentorID  *int64
	Page      int
	PageSize  int
}

// ProblemResponse represents a problem in API responses
type ProblemResponse struct {
	ID          int64          `json:"id" example:"1"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Status      string         `json:"status" example:"OPEN"`
	StudentID   int64          `json:"studentId"`
	MentorID    *int64         `json:"mentorId,omitempty"`
	Student     *SenderSummary `json:"student,omitempty"`
	Mentor      *SenderSummary `json:"mentor,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProblemListResponse is a paginated problem listing
type ProblemListResponse struct {
	Problems   []ProblemResponse `json:"problems"`
	Pagination PaginationInfo    `json:"pagination"`
}

// MatchingMentorResponse is one candidate in the matching-mentors list
type MatchingMentorResponse struct {
	ID           int64    `json:"id" example:"7"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Skills       []string `json:"skills"`
	OverlapCount int      `json:"overlapCount" example:"3"` // Shared tags with the problem
}

// ToProblemResponse converts a problem model to its response form
func ToProblemResponse(p *models.Problem) ProblemResponse {
	if p == nil {
		return ProblemResponse{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProblemResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        tags,
		Status:      string(p.Status),
		StudentID:   p.StudentID,
		MentorID:    p.MentorID,
		Student:     ToSenderSummary(p.Student),
		Mentor:      ToSenderSummary(p.Mentor),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
