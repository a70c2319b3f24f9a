package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/audit"
	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

// SettingsService exposes the global settings singleton and the maintenance
// switch.
type SettingsService interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	SetMaintenance(ctx context.Context, actor Actor, enabled bool) (dto.SettingsResponse, error)
}

type settingsService struct {
	repo     repository.SettingsRepository
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo repository.SettingsRepository, activity ActivityRecorder, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:     repo,
		activity: activity,
		logger:   logger.With().Str("component", "settings_service").Logger(),
	}
}

func (s *settingsService) Get(ctx context.Context) (dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return dto.SettingsResponse{}, err
	}
	return dto.NewSettingsResponse(settings), nil
}

// SetMaintenance flips the maintenance flag. Setting the flag to its current
// value is rejected so every TOGGLE event in the log marks a real transition.
func (s *settingsService) SetMaintenance(ctx context.Context, actor Actor, enabled bool) (dto.SettingsResponse, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return dto.SettingsResponse{}, err
	}

	if current.IsMaintenanceMode == enabled {
		return dto.SettingsResponse{}, ErrNoChanges
	}

	updated, err := s.repo.SetMaintenanceMode(ctx, enabled)
	if err != nil {
		return dto.SettingsResponse{}, err
	}

	details := "Enabled maintenance mode"
	if !enabled {
		details = "Disabled maintenance mode"
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionToggle,
		EntityType: audit.EntitySettings,
		EntityID:   &updated.ID,
		Details:    details,
		Changes: map[string]any{
			"old": map[string]any{"is_maintenance_mode": current.IsMaintenanceMode},
			"new": map[string]any{"is_maintenance_mode": enabled},
		},
	})

	s.logger.Info().Bool("enabled", enabled).Uint("actor_id", actor.ID).Msg("maintenance mode toggled")

	return dto.NewSettingsResponse(updated), nil
}
