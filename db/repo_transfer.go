package db

import (
	"context"
	"time"

	"github.com/RichKitibwa/BloodLink/apperr"
	"github.com/RichKitibwa/BloodLink/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// moveReservedUnits is the shared transfer primitive behind both
// acceptDonation and acceptResponse: inside the caller's transaction it
// commits `count` units out of the source unit's reservation, merges
// them into (or creates) the destination hospital's row with the same
// blood type, component and batch lineage, and writes the audit row.
// The source row must already be locked and hold the reservation.
func (r *Repo) moveReservedUnits(tx *gorm.DB, src *models.BloodUnit, toHospitalID string, count int, offerID, responseID *string, now time.Time) (*models.Transfer, error) {
	res := tx.Model(&models.BloodUnit{}).
		Where("id = ? AND units_reserved >= ?", src.ID, count).
		Update("units_reserved", gorm.Expr("units_reserved - ?", count))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.Conflict, "units were claimed by a concurrent transfer")
	}

	var dest models.BloodUnit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("hospital_id = ? AND blood_type = ? AND component = ? AND batch_number = ?",
			toHospitalID, src.BloodType, src.Component, src.BatchNumber).
		First(&dest).Error
	switch {
	case err == nil:
		if err := tx.Model(&dest).
			Update("units_available", gorm.Expr("units_available + ?", count)).Error; err != nil {
			return nil, err
		}
	case err == gorm.ErrRecordNotFound:
		dest = models.BloodUnit{
			ID:             uuid.NewString(),
			HospitalID:     toHospitalID,
			BloodType:      src.BloodType,
			Component:      src.Component,
			UnitsAvailable: count,
			DonationDate:   src.DonationDate,
			ExpiryDate:     src.ExpiryDate,
			BatchNumber:    src.BatchNumber,
			SourceLocation: src.SourceLocation,
		}
		if err := tx.Create(&dest).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	transfer := models.Transfer{
		ID:                uuid.NewString(),
		FromHospitalID:    src.HospitalID,
		ToHospitalID:      toHospitalID,
		BloodUnitID:       src.ID,
		BloodType:         src.BloodType,
		Component:         src.Component,
		BatchNumber:       src.BatchNumber,
		Units:             count,
		DonationOfferID:   offerID,
		RequestResponseID: responseID,
		CreatedAt:         now,
	}
	if err := tx.Create(&transfer).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

// ListTransfers returns the hospital's transfer history, both directions.
func (r *Repo) ListTransfers(ctx context.Context, hospitalID string) ([]models.Transfer, error) {
	var ts []models.Transfer
	err := r.DB.WithContext(ctx).
		Where("from_hospital_id = ? OR to_hospital_id = ?", hospitalID, hospitalID).
		Order("created_at DESC").
		Find(&ts).Error
	return ts, err
}
