package dto

import (
	"time"

	"github.com/edulink/mentorhub/internal/app/models"
)

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Email     string    `json:"email" example:"user@example.com"`
	FirstName string    `json:"firstName" example:"John"`
	LastName  string    `json:"lastName" example:"Doe"`
	RoleType  string    `json:"roleType" example:"STUDENT" enums:"STUDENT,MENTOR,ADMIN"`
	Bio       *string   `json:"bio,omitempty"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
}

// SenderSummary is the compact identity attached to chat messages
type SenderSummary struct {
	ID        int64  `json:"id" example:"1"`
	FirstName string `json:"firstName" example:"John"`
	LastName  string `json:"lastName" example:"Doe"`
	RoleType  string `json:"roleType" example:"MENTOR"`
}

// UpdateProfileRequest represents a profile fields update
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// UpdateSkillsRequest replaces the caller's skill tags
type UpdateSkillsRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

// MentorListResponse is a paginated mentor listing
type MentorListResponse struct {
	Mentors    []UserResponse `json:"mentors"`
	Pagination PaginationInfo `json:"pagination"`
}

// ToUserResponse converts a user model to its response form
func ToUserResponse(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RoleType:  string(u.RoleType),
		Bio:       u.Bio,
		Skills:    skills,
		CreatedAt: u.CreatedAt,
	}
}

// ToSenderSummary converts a user model to the chat sender summary
func ToSenderSummary(u *models.User) *SenderSummary {
	if u == nil {
		return nil
	}
	return &SenderSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RoleType:  string(u.RoleType),
	}
}
