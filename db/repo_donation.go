package db

import (
	"context"
	"sort"
	"time"

	"github.com/RichKitibwa/BloodLink/apperr"
	"github.com/RichKitibwa/BloodLink/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CriticalExpiryUnits lists the hospital's units inside the critical
// window that still have uncommitted stock. Drives the donation
// auto-suggestion; pure computation over the ledger.
func (r *Repo) CriticalExpiryUnits(ctx context.Context, hospitalID string, now time.Time) ([]models.BloodUnit, error) {
	var units []models.BloodUnit
	err := r.DB.WithContext(ctx).
		Where("hospital_id = ?", hospitalID).
		Where("expiry_date > ? AND expiry_date <= ?", now, now.AddDate(0, 0, r.criticalExpiryDays)).
		Where("units_available > 0").
		Order("expiry_date").
		Find(&units).Error
	return units, err
}

type ScheduleDonationsInput struct {
	HospitalID string
	UserID     string
	UnitIDs    []string
	Reason     models.OfferReason
	Notes      string
}

// ScheduleDonations turns ledger units into open offers. One
// transaction, all-or-nothing: each unit is row-locked, checked, and has
// its full available quantity reserved; any failure rolls back every
// reservation already taken.
func (r *Repo) ScheduleDonations(ctx context.Context, in ScheduleDonationsInput, now time.Time) ([]models.DonationOffer, error) {
	if len(in.UnitIDs) == 0 {
		return nil, apperr.New(apperr.Validation, "no blood units selected")
	}

	var offers []models.DonationOffer
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offers = offers[:0]
		for _, unitID := range in.UnitIDs {
			unit, err := lockUnit(tx, unitID)
			if err != nil {
				return err
			}
			if unit.HospitalID != in.HospitalID {
				return apperr.Newf(apperr.Forbidden, "blood unit %s belongs to another hospital", unit.BatchNumber)
			}
			if unit.Expired(now) {
				return apperr.Newf(apperr.Validation, "cannot schedule expired blood (batch %s)", unit.BatchNumber)
			}

			var open int64
			if err := tx.Model(&models.DonationOffer{}).
				Where("blood_unit_id = ? AND status = ?", unitID, models.OfferOffered).
				Count(&open).Error; err != nil {
				return err
			}
			if open > 0 {
				return apperr.Newf(apperr.State, "blood unit %s is already offered for donation", unit.BatchNumber)
			}

			quantity := unit.UnitsAvailable
			if err := reserveUnits(tx, unitID, quantity); err != nil {
				if apperr.IsKind(err, apperr.Validation) {
					return apperr.Newf(apperr.InsufficientStock, "blood unit %s has no units available", unit.BatchNumber)
				}
				return err
			}

			critical := models.CriticalExpiry(unit.ExpiryDate, now, r.criticalExpiryDays)
			reason := in.Reason
			if reason == "" {
				reason = models.ReasonHospitalTransfer
				if critical {
					reason = models.ReasonCriticalExpiry
				}
			}

			expiresAt := unit.ExpiryDate
			offer := models.DonationOffer{
				ID:               uuid.NewString(),
				SourceHospitalID: in.HospitalID,
				BloodUnitID:      unitID,
				UnitsOffered:     quantity,
				Reason:           reason,
				Notes:            in.Notes,
				CriticalExpiry:   critical,
				Status:           models.OfferOffered,
				ExpiresAt:        &expiresAt,
				CreatedByUserID:  in.UserID,
			}
			if err := tx.Create(&offer).Error; err != nil {
				return err
			}
			offers = append(offers, offer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offers, nil
}

type DonationFilters struct {
	BloodType          models.BloodType
	Component          models.Component
	Region             string
	IncludeOwnHospital bool
	SortBy             string // expiry_date | created_at | distance
}

type DonationView struct {
	models.DonationOffer
	BloodType           models.BloodType `json:"blood_type"`
	Component           models.Component `json:"component"`
	BatchNumber         string           `json:"batch_number"`
	ExpiryDate          time.Time        `json:"expiry_date"`
	DaysToExpiry        int              `json:"days_to_expiry"`
	HospitalName        string           `json:"donating_hospital_name"`
	HospitalCode        string           `json:"donating_hospital_code"`
	HospitalRegion      string           `json:"donating_hospital_region,omitempty"`
	HospitalDistrict    string           `json:"donating_hospital_district,omitempty"`
	HospitalPhone       string           `json:"donating_hospital_phone,omitempty"`
	HospitalEmail       string           `json:"donating_hospital_email,omitempty"`
	EstimatedDistanceKm *int             `json:"estimated_distance_km,omitempty"`
}

type donationRow struct {
	models.DonationOffer
	BloodType        models.BloodType
	Component        models.Component
	BatchNumber      string
	ExpiryDate       time.Time
	HospitalName     string
	HospitalCode     string
	HospitalRegion   string
	HospitalDistrict string
	HospitalPhone    string
	HospitalEmail    string
}

// AvailableDonations lists open offers from other hospitals. Offers past
// their unit's expiry are dropped here without a write (the lazy sweep).
func (r *Repo) AvailableDonations(ctx context.Context, caller *models.Hospital, f DonationFilters, now time.Time) ([]DonationView, error) {
	tx := r.DB.WithContext(ctx).Model(&models.DonationOffer{}).
		Select(`donation_offers.*,
			blood_units.blood_type AS blood_type,
			blood_units.component AS component,
			blood_units.batch_number AS batch_number,
			blood_units.expiry_date AS expiry_date,
			hospitals.name AS hospital_name,
			hospitals.hospital_code AS hospital_code,
			hospitals.region AS hospital_region,
			hospitals.district AS hospital_district,
			hospitals.phone AS hospital_phone,
			hospitals.email AS hospital_email`).
		Joins("JOIN blood_units ON blood_units.id = donation_offers.blood_unit_id").
		Joins("JOIN hospitals ON hospitals.id = donation_offers.source_hospital_id").
		Where("donation_offers.status = ?", models.OfferOffered).
		Where("blood_units.expiry_date > ?", now)

	if !f.IncludeOwnHospital && caller != nil {
		tx = tx.Where("donation_offers.source_hospital_id <> ?", caller.ID)
	}
	if f.BloodType != "" {
		tx = tx.Where("blood_units.blood_type = ?", f.BloodType)
	}
	if f.Component != "" {
		tx = tx.Where("blood_units.component = ?", f.Component)
	}
	if f.Region != "" {
		tx = tx.Where("hospitals.region ILIKE ?", "%"+f.Region+"%")
	}

	var rows []donationRow
	if err := tx.Order("blood_units.expiry_date").Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]DonationView, 0, len(rows))
	for _, row := range rows {
		h := models.Hospital{Region: row.HospitalRegion, District: row.HospitalDistrict}
		views = append(views, DonationView{
			DonationOffer:       row.DonationOffer,
			BloodType:           row.BloodType,
			Component:           row.Component,
			BatchNumber:         row.BatchNumber,
			ExpiryDate:          row.ExpiryDate,
			DaysToExpiry:        models.DaysToExpiry(row.ExpiryDate, now),
			HospitalName:        row.HospitalName,
			HospitalCode:        row.HospitalCode,
			HospitalRegion:      row.HospitalRegion,
			HospitalDistrict:    row.HospitalDistrict,
			HospitalPhone:       row.HospitalPhone,
			HospitalEmail:       row.HospitalEmail,
			EstimatedDistanceKm: models.EstimateDistanceKm(caller, &h),
		})
	}

	switch f.SortBy {
	case "created_at":
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		})
	case "distance":
		sort.SliceStable(views, func(i, j int) bool {
			di, dj := views[i].EstimatedDistanceKm, views[j].EstimatedDistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	}
	return views, nil
}

// MyDonationSchedules lists the hospital's own offers, newest first,
// with the lazy expiry sweep applied to the presented status.
func (r *Repo) MyDonationSchedules(ctx context.Context, hospitalID string, now time.Time) ([]models.DonationOffer, error) {
	var offers []models.DonationOffer
	err := r.DB.WithContext(ctx).
		Preload("BloodUnit").
		Where("source_hospital_id = ?", hospitalID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	for i := range offers {
		offers[i].Status = offers[i].EffectiveStatus(now)
	}
	return offers, nil
}

// AcceptDonation performs the atomic transfer for an open offer. The
// offer row is locked and its status rechecked under the lock, so of two
// concurrent acceptances exactly one commits; the other sees the status
// flip and fails with Conflict.
func (r *Repo) AcceptDonation(ctx context.Context, acceptingHospitalID, offerID string, now time.Time) (*models.Transfer, error) {
	var transfer *models.Transfer
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer models.DonationOffer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offer, "id = ?", offerID).Error; err != nil {
			return notFound(err, "donation offer")
		}
		if offer.SourceHospitalID == acceptingHospitalID {
			return apperr.New(apperr.Validation, "cannot accept your own donation")
		}
		if offer.Status != models.OfferOffered {
			return apperr.New(apperr.Conflict, "this donation is no longer available")
		}

		unit, err := lockUnit(tx, offer.BloodUnitID)
		if err != nil {
			return err
		}
		if unit.Expired(now) {
			return apperr.New(apperr.State, "the offered blood has expired")
		}

		transfer, err = r.moveReservedUnits(tx, unit, acceptingHospitalID, offer.UnitsOffered, &offer.ID, nil, now)
		if err != nil {
			return err
		}

		return tx.Model(&offer).Updates(map[string]interface{}{
			"status":                  models.OfferAccepted,
			"accepted_by_hospital_id": acceptingHospitalID,
			"accepted_at":             now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// WithdrawOffer cancels the hospital's own open offer and releases the
// reservation back to the ledger.
func (r *Repo) WithdrawOffer(ctx context.Context, hospitalID, offerID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer models.DonationOffer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offer, "id = ? AND source_hospital_id = ?", offerID, hospitalID).Error
		if err != nil {
			return notFound(err, "donation offer")
		}
		if offer.Status == models.OfferAccepted {
			return apperr.New(apperr.State, "cannot withdraw an accepted donation")
		}
		if offer.Status != models.OfferOffered {
			return nil // already withdrawn, idempotent
		}
		if err := releaseUnits(tx, offer.BloodUnitID, offer.UnitsOffered); err != nil {
			return err
		}
		return tx.Model(&offer).Update("status", models.OfferWithdrawn).Error
	})
}
