package models

import "time"

type User struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username       string `gorm:"size:255;uniqueIndex;not null" json:"username"`
	HashedPassword string `gorm:"size:255;not null" json:"-"`
	FullName       string `gorm:"size:255" json:"full_name,omitempty"`
	Phone          string `gorm:"size:45" json:"phone,omitempty"`
	Role           Role   `gorm:"size:32;not null;default:'hospital_staff'" json:"role"`
	HospitalID     string `gorm:"type:uuid;index;not null" json:"hospital_id"`
	Position       string `gorm:"size:120" json:"position,omitempty"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `gorm:"index" json:"last_login_at,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"last_seen_at,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"login_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

func (User) TableName() string { return "users" }
