package dto

// MaintenanceToggleRequest sets the maintenance flag. The pointer
// distinguishes "explicitly false" from "missing".
type MaintenanceToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
