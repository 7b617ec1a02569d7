package models

import "time"

const (
	NotifyInfo     = "INFO"
	NotifyWarning  = "WARNING"
	NotifyCritical = "CRITICAL"
	NotifySuccess  = "SUCCESS"
)

// Notification with a nil recipient is a broadcast to every hospital.
type Notification struct {
	ID                  string  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientHospitalID *string `gorm:"type:uuid;index" json:"recipient_hospital_id,omitempty"`

	Title            string `gorm:"size:255;not null" json:"title"`
	Message          string `gorm:"type:text;not null" json:"message"`
	NotificationType string `gorm:"size:20;not null;default:'INFO'" json:"notification_type"`
	ActionURL        string `gorm:"size:255" json:"action_url,omitempty"`

	IsRead    bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
