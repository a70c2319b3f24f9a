package models

import "time"

// GlobalSettings is a singleton row. When maintenance mode is on, every
// request from a non super admin is refused before role checks run.
type GlobalSettings struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	IsMaintenanceMode bool      `gorm:"not null;default:false" json:"is_maintenance_mode"`
	UpdatedAt         time.Time `json:"updated_at"`
}
