package dto

import (
	"time"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// DepartmentCreateRequest carries a new department.
type DepartmentCreateRequest struct {
	ChurchID    uint   `json:"church_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description" validate:"omitempty,max=1024"`
}

// DepartmentUpdateRequest captures partial department edits.
type DepartmentUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

// DepartmentResponse serialises a department.
type DepartmentResponse struct {
	ID          uint      `json:"id"`
	ChurchID    uint      `json:"church_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DepartmentListRequest defines filters for listing departments.
type DepartmentListRequest struct {
	Page     int
	PageSize int
	ChurchID *uint
	Search   string
}

// DepartmentListResponse wraps a paginated department listing.
type DepartmentListResponse struct {
	Items      []DepartmentResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// NewDepartmentResponse converts a department model into a DTO.
func NewDepartmentResponse(department models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          department.ID,
		ChurchID:    department.ChurchID,
		Name:        department.Name,
		Description: department.Description,
		CreatedAt:   department.CreatedAt,
		UpdatedAt:   department.UpdatedAt,
	}
}
