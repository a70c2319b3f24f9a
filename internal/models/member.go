package models

import "time"

// Member is a congregation member registered under a church, optionally
// attached to a department. Members cannot log in.
type Member struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChurchID     uint      `gorm:"not null;index" json:"church_id"`
	DepartmentID *uint     `gorm:"index" json:"department_id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Phone        string    `gorm:"size:64" json:"phone"`
	Gender       string    `gorm:"size:16" json:"gender"`
	PhotoURL     string    `gorm:"size:512" json:"photo_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
