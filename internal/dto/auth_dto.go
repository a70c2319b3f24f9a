package dto

import (
	"time"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// LoginRequest carries email+password credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProfileResponse serialises a profile for API consumers. The password hash
// never leaves the model layer.
type ProfileResponse struct {
	ID            uint       `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	Role          string     `json:"role"`
	ChurchID      *uint      `json:"church_id"`
	DepartmentID  *uint      `json:"department_id"`
	DepartmentIDs []uint     `json:"department_ids,omitempty"`
	AvatarURL     string     `json:"avatar_url"`
	IsBlocked     bool       `json:"is_blocked"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LoginResponse returns the bearer token alongside the signed-in profile.
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// SettingsResponse serialises the global settings singleton.
type SettingsResponse struct {
	IsMaintenanceMode bool      `json:"is_maintenance_mode"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SessionResponse is the bootstrap payload: everything a client needs to
// initialise after sign-in or on reload.
type SessionResponse struct {
	Profile  ProfileResponse  `json:"profile"`
	Settings SettingsResponse `json:"settings"`
}

// ChangePasswordRequest carries a self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// PasswordResetRequest asks for a reset token to be issued for the email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewProfileResponse converts a profile model into a DTO.
func NewProfileResponse(profile models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:           profile.ID,
		Email:        profile.Email,
		FullName:     profile.FullName,
		Role:         profile.Role.String(),
		ChurchID:     profile.ChurchID,
		DepartmentID: profile.DepartmentID,
		AvatarURL:    profile.AvatarURL,
		IsBlocked:    profile.IsBlocked,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}
}

// NewSettingsResponse converts the settings model into a DTO.
func NewSettingsResponse(settings models.GlobalSettings) SettingsResponse {
	return SettingsResponse{
		IsMaintenanceMode: settings.IsMaintenanceMode,
		UpdatedAt:         settings.UpdatedAt,
	}
}
