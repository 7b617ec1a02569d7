package models

import "time"

type Hospital struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	HospitalCode  string    `gorm:"size:20;uniqueIndex;not null" json:"hospital_code"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone         string    `gorm:"size:45" json:"phone,omitempty"`
	Address       string    `gorm:"type:text" json:"address,omitempty"`
	District      string    `gorm:"size:120" json:"district,omitempty"`
	Region        string    `gorm:"size:120" json:"region,omitempty"`
	LicenseNumber string    `gorm:"size:120" json:"license_number,omitempty"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Hospital) TableName() string { return "hospitals" }

// EstimateDistanceKm is the coarse proximity heuristic used for search
// ordering: 5 km within a district, 50 km within a region, 200 km
// otherwise. Nil when either side is unknown, and such rows sort last.
func EstimateDistanceKm(a, b *Hospital) *int {
	if a == nil || b == nil {
		return nil
	}
	km := 200
	if a.Region != "" && a.Region == b.Region {
		km = 50
		if a.District != "" && a.District == b.District {
			km = 5
		}
	}
	return &km
}
