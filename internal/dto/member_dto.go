package dto

import (
	"time"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// MemberCreateRequest carries a new congregation member.
type MemberCreateRequest struct {
	ChurchID     uint   `json:"church_id" validate:"required,gt=0"`
	DepartmentID *uint  `json:"department_id" validate:"omitempty,gt=0"`
	FullName     string `json:"full_name" validate:"required,min=2"`
	Phone        string `json:"phone" validate:"omitempty,max=64"`
	Gender       string `json:"gender" validate:"omitempty,oneof=male female"`
}

// MemberUpdateRequest captures partial member edits.
type MemberUpdateRequest struct {
	DepartmentID *uint   `json:"department_id" validate:"omitempty,gt=0"`
	FullName     *string `json:"full_name" validate:"omitempty,min=2"`
	Phone        *string `json:"phone" validate:"omitempty,max=64"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=male female"`
}

// MemberResponse serialises a member.
type MemberResponse struct {
	ID           uint      `json:"id"`
	ChurchID     uint      `json:"church_id"`
	DepartmentID *uint     `json:"department_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Gender       string    `json:"gender"`
	PhotoURL     string    `json:"photo_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MemberListRequest defines filters for listing members.
type MemberListRequest struct {
	Page         int
	PageSize     int
	DepartmentID *uint
	Search       string
}

// MemberListResponse wraps a paginated member listing.
type MemberListResponse struct {
	Items      []MemberResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// NewMemberResponse converts a member model into a DTO.
func NewMemberResponse(member models.Member) MemberResponse {
	return MemberResponse{
		ID:           member.ID,
		ChurchID:     member.ChurchID,
		DepartmentID: member.DepartmentID,
		FullName:     member.FullName,
		Phone:        member.Phone,
		Gender:       member.Gender,
		PhotoURL:     member.PhotoURL,
		CreatedAt:    member.CreatedAt,
		UpdatedAt:    member.UpdatedAt,
	}
}
