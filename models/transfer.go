package models

import "time"

// Transfer is the audit record of one atomic unit movement between two
// hospital ledgers, created when an offer or a request response is
// accepted. Never mutated after creation.
type Transfer struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	FromHospitalID string `gorm:"type:uuid;index;not null" json:"from_hospital_id"`
	ToHospitalID   string `gorm:"type:uuid;index;not null" json:"to_hospital_id"`

	BloodUnitID string    `gorm:"type:uuid;index;not null" json:"blood_unit_id"`
	BloodType   BloodType `gorm:"size:4;not null" json:"blood_type"`
	Component   Component `gorm:"size:40;not null" json:"component"`
	BatchNumber string    `gorm:"size:64;not null" json:"batch_number"`
	Units       int       `gorm:"not null" json:"units"`

	DonationOfferID   *string `gorm:"type:uuid;index" json:"donation_offer_id,omitempty"`
	RequestResponseID *string `gorm:"type:uuid;index" json:"request_response_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Transfer) TableName() string { return "transfers" }
