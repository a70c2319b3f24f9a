package models

import "time"

// Profile is a login-capable identity: super admins, pastors and servants.
// ChurchID is nil for super admins; DepartmentID is only meaningful for
// servants. Profiles are never hard-deleted while activity rows reference them.
type Profile struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:255;not null" json:"full_name"`
	Role         Role       `gorm:"size:32;not null;index" json:"role"`
	ChurchID     *uint      `gorm:"index" json:"church_id"`
	DepartmentID *uint      `json:"department_id"`
	AvatarURL    string     `gorm:"size:512" json:"avatar_url"`
	IsBlocked    bool       `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Church       *Church    `gorm:"foreignKey:ChurchID" json:"-"`
	Departments  []Department `gorm:"many2many:profile_departments" json:"-"`
}
