package models

import "time"

// BloodUnit is one ledger row: a batch of stock held by one hospital.
// units_available and units_reserved are the authoritative counters;
// every transfer moves quantity through units_reserved inside a single
// transaction, and the check constraints keep both non-negative even if
// a bug slips past the guarded updates.
type BloodUnit struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID string    `gorm:"type:uuid;index;not null;uniqueIndex:idx_hospital_batch" json:"hospital_id"`
	BloodType  BloodType `gorm:"size:4;not null;index" json:"blood_type"`
	Component  Component `gorm:"size:40;not null;index" json:"component"`

	UnitsAvailable int `gorm:"not null;default:0;check:units_available >= 0" json:"units_available"`
	UnitsReserved  int `gorm:"not null;default:0;check:units_reserved >= 0" json:"units_reserved"`

	DonationDate   time.Time `gorm:"not null" json:"donation_date"`
	ExpiryDate     time.Time `gorm:"not null;index" json:"expiry_date"`
	BatchNumber    string    `gorm:"size:64;not null;uniqueIndex:idx_hospital_batch" json:"batch_number"`
	SourceLocation string    `gorm:"size:255" json:"source_location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BloodUnit) TableName() string { return "blood_units" }

func (u *BloodUnit) Expired(now time.Time) bool {
	return !now.Before(u.ExpiryDate)
}

// MatchableUnits is what the matching views expose: expired rows stay
// visible for audit but can never contribute stock.
func (u *BloodUnit) MatchableUnits(now time.Time) int {
	if u.Expired(now) {
		return 0
	}
	return u.UnitsAvailable
}
