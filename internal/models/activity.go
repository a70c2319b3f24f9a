package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is one immutable audit record of an administrative action.
// Rows are append-only: the application never updates or deletes them, and
// ActorID carries no cascade so events outlive their actor. CreatedAt is the
// sole ordering key; ties are broken by ID.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    *uint             `gorm:"index" json:"actor_id"`
	Action     string            `gorm:"size:32;not null;index" json:"action"`
	EntityType string            `gorm:"size:32;not null;index" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Details    string            `gorm:"size:512;not null" json:"details"`
	Changes    datatypes.JSONMap `gorm:"type:json" json:"changes"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}
