package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RichKitibwa/BloodLink/apperr"
	"github.com/RichKitibwa/BloodLink/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GenerateBatchNumber builds a batch id unique enough per hospital-day:
// BL-<date>-<random suffix>. Cosmetic format, uniqueness is enforced by
// the (hospital, batch) index.
func GenerateBatchNumber(now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("BL-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}

// AddStock records a new ledger unit for the hospital. The unit enters
// with units_available = units and nothing reserved.
func (r *Repo) AddStock(ctx context.Context, unit *models.BloodUnit) error {
	if unit.UnitsAvailable < 1 {
		return apperr.New(apperr.Validation, "units must be at least 1")
	}
	if !unit.ExpiryDate.After(unit.DonationDate) {
		return apperr.New(apperr.Validation, "expiry date must be after donation date")
	}
	if unit.BatchNumber == "" {
		unit.BatchNumber = GenerateBatchNumber(time.Now().UTC())
	}

	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.BloodUnit{}).
		Where("hospital_id = ? AND batch_number = ?", unit.HospitalID, unit.BatchNumber).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Newf(apperr.Validation, "batch number %s already exists", unit.BatchNumber)
	}

	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	unit.UnitsReserved = 0
	// The count above races with concurrent inserts; the unique index is
	// the real guard, so map its violation the same way.
	return dupKey(r.DB.WithContext(ctx).Create(unit).Error,
		"batch number "+unit.BatchNumber+" already exists")
}

type UpdateStockInput struct {
	UnitsAvailable *int
	ExpiryDate     *time.Time
	SourceLocation *string
}

// UpdateStock edits an owned ledger unit under a row lock. The reserved
// counter is never touched, and fields an open offer depends on cannot
// change until the offer is withdrawn.
func (r *Repo) UpdateStock(ctx context.Context, hospitalID, unitID string, in UpdateStockInput) (*models.BloodUnit, error) {
	var unit *models.BloodUnit
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := lockUnit(tx, unitID)
		if err != nil {
			return err
		}
		if u.HospitalID != hospitalID {
			return apperr.New(apperr.Forbidden, "blood unit belongs to another hospital")
		}

		updates := map[string]interface{}{}
		if in.UnitsAvailable != nil {
			if *in.UnitsAvailable < 0 {
				return apperr.New(apperr.Validation, "units cannot be negative")
			}
			updates["units_available"] = *in.UnitsAvailable
		}
		if in.ExpiryDate != nil {
			if !in.ExpiryDate.After(u.DonationDate) {
				return apperr.New(apperr.Validation, "expiry date must be after donation date")
			}
			updates["expiry_date"] = *in.ExpiryDate
		}
		if in.SourceLocation != nil {
			updates["source_location"] = *in.SourceLocation
		}
		unit = u
		if len(updates) == 0 {
			return nil
		}

		if in.UnitsAvailable != nil || in.ExpiryDate != nil {
			var open int64
			if err := tx.Model(&models.DonationOffer{}).
				Where("blood_unit_id = ? AND status = ?", unitID, models.OfferOffered).
				Count(&open).Error; err != nil {
				return err
			}
			if open > 0 {
				return apperr.New(apperr.State, "withdraw the open donation offer before editing this unit")
			}
		}
		return tx.Model(u).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

func (r *Repo) FindUnitByID(ctx context.Context, id string) (*models.BloodUnit, error) {
	var u models.BloodUnit
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "blood unit")
	}
	return &u, nil
}

// ListStock returns the hospital's own ledger, expired rows included,
// ordered by soonest expiry.
func (r *Repo) ListStock(ctx context.Context, hospitalID string) ([]models.BloodUnit, error) {
	var units []models.BloodUnit
	err := r.DB.WithContext(ctx).
		Where("hospital_id = ?", hospitalID).
		Order("expiry_date").
		Find(&units).Error
	return units, err
}

type StockFilters struct {
	BloodType          models.BloodType
	Component          models.Component
	Region             string
	District           string
	HospitalName       string
	MinUnits           int
	ExcludeExpired     bool
	ExcludeNearExpiry  bool
	IncludeOwnHospital bool
	SortBy             string // expiry_date | units_available | distance
}

// StockView is a ledger row joined with its hospital's metadata plus the
// computed availability fields the matching UI needs.
type StockView struct {
	models.BloodUnit
	HospitalName        string             `json:"hospital_name"`
	HospitalCode        string             `json:"hospital_code"`
	HospitalRegion      string             `json:"hospital_region,omitempty"`
	HospitalDistrict    string             `json:"hospital_district,omitempty"`
	HospitalPhone       string             `json:"hospital_phone,omitempty"`
	AvailabilityStatus  models.StockStatus `json:"availability_status"`
	DaysToExpiry        int                `json:"days_to_expiry"`
	EstimatedDistanceKm *int               `json:"estimated_distance_km,omitempty"`
}

type stockRow struct {
	models.BloodUnit
	HospitalName     string
	HospitalCode     string
	HospitalRegion   string
	HospitalDistrict string
	HospitalPhone    string
}

// SearchStock is the cross-hospital matching read. Pure query: status
// and distance are computed per row, never persisted, and expired rows
// (when included) report zero availability.
func (r *Repo) SearchStock(ctx context.Context, caller *models.Hospital, f StockFilters, now time.Time) ([]StockView, error) {
	tx := r.DB.WithContext(ctx).Model(&models.BloodUnit{}).
		Select(`blood_units.*,
			hospitals.name AS hospital_name,
			hospitals.hospital_code AS hospital_code,
			hospitals.region AS hospital_region,
			hospitals.district AS hospital_district,
			hospitals.phone AS hospital_phone`).
		Joins("JOIN hospitals ON hospitals.id = blood_units.hospital_id").
		Where("hospitals.is_active = TRUE")

	if !f.IncludeOwnHospital && caller != nil {
		tx = tx.Where("blood_units.hospital_id <> ?", caller.ID)
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
	if f.District != "" {
		tx = tx.Where("hospitals.district ILIKE ?", "%"+f.District+"%")
	}
	if f.HospitalName != "" {
		tx = tx.Where("hospitals.name ILIKE ?", "%"+f.HospitalName+"%")
	}
	if f.MinUnits > 0 {
		tx = tx.Where("blood_units.units_available >= ?", f.MinUnits)
	}
	if f.ExcludeExpired {
		tx = tx.Where("blood_units.expiry_date > ?", now)
	}
	if f.ExcludeNearExpiry {
		tx = tx.Where("blood_units.expiry_date > ?", now.AddDate(0, 0, models.ExcludeNearExpiryDays))
	}

	var rows []stockRow
	if err := tx.Order("blood_units.expiry_date").Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]StockView, 0, len(rows))
	for _, row := range rows {
		h := models.Hospital{Region: row.HospitalRegion, District: row.HospitalDistrict}
		v := StockView{
			BloodUnit:           row.BloodUnit,
			HospitalName:        row.HospitalName,
			HospitalCode:        row.HospitalCode,
			HospitalRegion:      row.HospitalRegion,
			HospitalDistrict:    row.HospitalDistrict,
			HospitalPhone:       row.HospitalPhone,
			AvailabilityStatus:  models.AvailabilityStatus(row.ExpiryDate, now, r.nearExpiryDays),
			DaysToExpiry:        models.DaysToExpiry(row.ExpiryDate, now),
			EstimatedDistanceKm: models.EstimateDistanceKm(caller, &h),
		}
		v.UnitsAvailable = row.MatchableUnits(now)
		views = append(views, v)
	}
	sortStockViews(views, f.SortBy)
	return views, nil
}

func sortStockViews(views []StockView, sortBy string) {
	switch sortBy {
	case "units_available":
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].UnitsAvailable > views[j].UnitsAvailable
		})
	case "distance":
		// Unknown distances sort last.
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
	default:
		// Rows arrive ordered by expiry_date.
	}
}

// NearExpiryStock lists the hospital's unexpired units inside the window.
func (r *Repo) NearExpiryStock(ctx context.Context, hospitalID string, days int, now time.Time) ([]models.BloodUnit, error) {
	var units []models.BloodUnit
	err := r.DB.WithContext(ctx).
		Where("hospital_id = ?", hospitalID).
		Where("expiry_date > ? AND expiry_date <= ?", now, now.AddDate(0, 0, days)).
		Where("units_available > 0").
		Order("expiry_date").
		Find(&units).Error
	return units, err
}

type StockSummary struct {
	BloodType       models.BloodType `json:"blood_type"`
	Component       models.Component `json:"component"`
	TotalUnits      int              `json:"total_units"`
	NearExpiryUnits int              `json:"near_expiry_units"`
	CriticalLevel   bool             `json:"critical_level"`
}

// Stock below this total per type/component is flagged critical.
const criticalStockLevel = 10

func (r *Repo) StockSummary(ctx context.Context, hospitalID string, now time.Time) ([]StockSummary, error) {
	nearExpiry := now.AddDate(0, 0, r.nearExpiryDays)

	var rows []StockSummary
	err := r.DB.WithContext(ctx).Model(&models.BloodUnit{}).
		Select(`blood_type, component,
			SUM(units_available) AS total_units,
			SUM(CASE WHEN expiry_date <= ? THEN units_available ELSE 0 END) AS near_expiry_units`,
			nearExpiry).
		Where("hospital_id = ? AND expiry_date > ? AND units_available > 0", hospitalID, now).
		Group("blood_type, component").
		Order("blood_type, component").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CriticalLevel = rows[i].TotalUnits < criticalStockLevel
	}
	return rows, nil
}

// --- reservation primitives ---
//
// These are the only paths that move quantity between units_available
// and units_reserved. All run inside the caller's transaction; the
// guarded WHERE makes each one a single atomic compare-and-swap, so a
// concurrent reservation can never drive a counter negative.

func reserveUnits(tx *gorm.DB, unitID string, count int) error {
	if count < 1 {
		return apperr.New(apperr.Validation, "reservation must cover at least 1 unit")
	}
	res := tx.Model(&models.BloodUnit{}).
		Where("id = ? AND units_available >= ?", unitID, count).
		Updates(map[string]interface{}{
			"units_available": gorm.Expr("units_available - ?", count),
			"units_reserved":  gorm.Expr("units_reserved + ?", count),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.InsufficientStock, "not enough unreserved units available")
	}
	return nil
}

func releaseUnits(tx *gorm.DB, unitID string, count int) error {
	res := tx.Model(&models.BloodUnit{}).
		Where("id = ? AND units_reserved >= ?", unitID, count).
		Updates(map[string]interface{}{
			"units_available": gorm.Expr("units_available + ?", count),
			"units_reserved":  gorm.Expr("units_reserved - ?", count),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.State, "reservation no longer held")
	}
	return nil
}

func lockUnit(tx *gorm.DB, unitID string) (*models.BloodUnit, error) {
	var u models.BloodUnit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, "id = ?", unitID).Error
	if err != nil {
		return nil, notFound(err, "blood unit")
	}
	return &u, nil
}
