package dto

import (
	"time"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// ChurchCreateRequest carries a new branch.
type ChurchCreateRequest struct {
	Name      string   `json:"name" validate:"required,min=2"`
	Address   string   `json:"address" validate:"omitempty,max=512"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// ChurchUpdateRequest captures partial branch edits.
type ChurchUpdateRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=2"`
	Address   *string  `json:"address" validate:"omitempty,max=512"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// ChurchResponse serialises a branch.
type ChurchResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChurchListRequest defines filters for listing branches.
type ChurchListRequest struct {
	Page     int
	PageSize int
	Search   string
}

// ChurchListResponse wraps a paginated branch listing.
type ChurchListResponse struct {
	Items      []ChurchResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// NewChurchResponse converts a church model into a DTO.
func NewChurchResponse(church models.Church) ChurchResponse {
	return ChurchResponse{
		ID:        church.ID,
		Name:      church.Name,
		Address:   church.Address,
		Latitude:  church.Latitude,
		Longitude: church.Longitude,
		CreatedAt: church.CreatedAt,
		UpdatedAt: church.UpdatedAt,
	}
}
