package models

import "time"

type OfferStatus string

const (
	OfferOffered   OfferStatus = "OFFERED"
	OfferAccepted  OfferStatus = "ACCEPTED"
	OfferWithdrawn OfferStatus = "WITHDRAWN"
	OfferExpired   OfferStatus = "EXPIRED"
)

// DonationOffer reserves its full units_offered on the referenced unit
// for as long as it stays OFFERED. The partial unique index created in
// db.Migrate allows at most one open offer per unit.
type DonationOffer struct {
	ID               string      `gorm:"type:uuid;primaryKey" json:"id"`
	SourceHospitalID string      `gorm:"type:uuid;index;not null" json:"source_hospital_id"`
	BloodUnitID      string      `gorm:"type:uuid;index;not null" json:"blood_unit_id"`
	UnitsOffered     int         `gorm:"not null" json:"units_offered"`
	Reason           OfferReason `gorm:"size:40;not null" json:"reason"`
	Notes            string      `gorm:"type:text" json:"notes,omitempty"`
	CriticalExpiry   bool        `gorm:"not null;default:false" json:"critical_expiry"`
	Status           OfferStatus `gorm:"size:20;not null;default:'OFFERED';index" json:"status"`

	AcceptedByHospitalID *string    `gorm:"type:uuid" json:"accepted_by_hospital_id,omitempty"`
	AcceptedAt           *time.Time `json:"accepted_at,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	CreatedByUserID      string     `gorm:"type:uuid" json:"created_by_user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BloodUnit *BloodUnit `gorm:"foreignKey:BloodUnitID" json:"blood_unit,omitempty"`
}

func (DonationOffer) TableName() string { return "donation_offers" }

// EffectiveStatus applies the lazy expiry sweep: an open offer whose
// unit has expired reads as EXPIRED without needing a write.
func (o *DonationOffer) EffectiveStatus(now time.Time) OfferStatus {
	if o.Status == OfferOffered && o.ExpiresAt != nil && !now.Before(*o.ExpiresAt) {
		return OfferExpired
	}
	return o.Status
}
