package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
)

// SettingsRepository reads and writes the singleton global settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (models.GlobalSettings, error)
	SetMaintenanceMode(ctx context.Context, enabled bool) (models.GlobalSettings, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository constructs the settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the singleton row, creating it on first access.
func (r *settingsRepository) Get(ctx context.Context) (models.GlobalSettings, error) {
	var settings models.GlobalSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.GlobalSettings{IsMaintenanceMode: false}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return models.GlobalSettings{}, err
		}
		return settings, nil
	}
	return settings, err
}

func (r *settingsRepository) SetMaintenanceMode(ctx context.Context, enabled bool) (models.GlobalSettings, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return models.GlobalSettings{}, err
	}
	if err := r.db.WithContext(ctx).Model(&settings).Update("is_maintenance_mode", enabled).Error; err != nil {
		return models.GlobalSettings{}, err
	}
	settings.IsMaintenanceMode = enabled
	return settings, nil
}
