package models

import "time"

// Department groups servants and members inside one church.
type Department struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChurchID    uint      `gorm:"not null;index" json:"church_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileDepartment is the join row linking servants to the departments they
// serve in. Kept explicit so repositories can query it directly.
type ProfileDepartment struct {
	ProfileID    uint `gorm:"primaryKey" json:"profile_id"`
	DepartmentID uint `gorm:"primaryKey" json:"department_id"`
}
