package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RichKitibwa/BloodLink/app"
	"github.com/RichKitibwa/BloodLink/apperr"
	"github.com/RichKitibwa/BloodLink/db"
	"github.com/RichKitibwa/BloodLink/models"

	"github.com/gin-gonic/gin"
)

type StockController struct{ *Srv }

func NewStockController(s *Srv) *StockController { return &StockController{Srv: s} }

type addStockReq struct {
	BloodType      models.BloodType `json:"blood_type" binding:"required"`
	Component      models.Component `json:"component" binding:"required"`
	UnitsAvailable int              `json:"units_available" binding:"required"`
	DonationDate   time.Time        `json:"donation_date" binding:"required"`
	ExpiryDate     time.Time        `json:"expiry_date" binding:"required"`
	BatchNumber    string           `json:"batch_number"`
	SourceLocation string           `json:"source_location"`
}

// AddStock records a new ledger unit for the acting hospital.
func (sc *StockController) AddStock(c *gin.Context) {
	var in addStockReq
	if err := c.ShouldBindJSON(&in); err != nil {
		sc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	if !in.BloodType.Valid() {
		sc.fail(c, apperr.New(apperr.Validation, "invalid blood type"))
		return
	}
	if !in.Component.Valid() {
		sc.fail(c, apperr.New(apperr.Validation, "invalid component"))
		return
	}

	unit := &models.BloodUnit{
		HospitalID:     hospitalID(c),
		BloodType:      in.BloodType,
		Component:      in.Component,
		UnitsAvailable: in.UnitsAvailable,
		DonationDate:   in.DonationDate,
		ExpiryDate:     in.ExpiryDate,
		BatchNumber:    in.BatchNumber,
		SourceLocation: in.SourceLocation,
	}
	if err := sc.Repo.AddStock(c.Request.Context(), unit); err != nil {
		sc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

type updateStockReq struct {
	UnitsAvailable *int       `json:"units_available"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	SourceLocation *string    `json:"source_location"`
}

// UpdateStock edits the acting hospital's own unit.
func (sc *StockController) UpdateStock(c *gin.Context) {
	var in updateStockReq
	if err := c.ShouldBindJSON(&in); err != nil {
		sc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	unit, err := sc.Repo.UpdateStock(c.Request.Context(), hospitalID(c), c.Param("id"), db.UpdateStockInput{
		UnitsAvailable: in.UnitsAvailable,
		ExpiryDate:     in.ExpiryDate,
		SourceLocation: in.SourceLocation,
	})
	if err != nil {
		sc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// ListStock returns the hospital's own ledger with computed status.
func (sc *StockController) ListStock(c *gin.Context) {
	units, err := sc.Repo.ListStock(c.Request.Context(), hospitalID(c))
	if err != nil {
		sc.fail(c, err)
		return
	}
	now := time.Now().UTC()
	type ownUnit struct {
		models.BloodUnit
		AvailabilityStatus models.StockStatus `json:"availability_status"`
		DaysToExpiry       int                `json:"days_to_expiry"`
	}
	out := make([]ownUnit, 0, len(units))
	for _, u := range units {
		out = append(out, ownUnit{
			BloodUnit:          u,
			AvailabilityStatus: models.AvailabilityStatus(u.ExpiryDate, now, sc.Cfg.NearExpiryDays),
			DaysToExpiry:       models.DaysToExpiry(u.ExpiryDate, now),
		})
	}
	c.JSON(http.StatusOK, app.H{"items": out})
}

func queryBool(c *gin.Context, name string, def bool) bool {
	v := c.Query(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Search is the cross-hospital matching view.
func (sc *StockController) Search(c *gin.Context) {
	minUnits, _ := strconv.Atoi(c.Query("min_units"))
	f := db.StockFilters{
		BloodType:          models.BloodType(c.Query("blood_type")),
		Component:          models.Component(c.Query("component")),
		Region:             c.Query("region"),
		District:           c.Query("district"),
		HospitalName:       c.Query("hospital_name"),
		MinUnits:           minUnits,
		ExcludeExpired:     queryBool(c, "exclude_expired", true),
		ExcludeNearExpiry:  queryBool(c, "exclude_near_expiry", false),
		IncludeOwnHospital: !queryBool(c, "exclude_own_hospital", true),
		SortBy:             c.DefaultQuery("sort_by", "expiry_date"),
	}

	views, err := sc.Repo.SearchStock(c.Request.Context(), sc.callerHospital(c), f, time.Now().UTC())
	if err != nil {
		sc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": views})
}

func (sc *StockController) NearExpiry(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(sc.Cfg.NearExpiryDays)))
	if err != nil || days < 1 || days > 30 {
		sc.fail(c, apperr.New(apperr.Validation, "days must be between 1 and 30"))
		return
	}
	units, err := sc.Repo.NearExpiryStock(c.Request.Context(), hospitalID(c), days, time.Now().UTC())
	if err != nil {
		sc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": units})
}

func (sc *StockController) Summary(c *gin.Context) {
	rows, err := sc.Repo.StockSummary(c.Request.Context(), hospitalID(c), time.Now().UTC())
	if err != nil {
		sc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"summary": rows})
}

type stockAlert struct {
	Type       string           `json:"type"`
	Severity   string           `json:"severity"`
	Message    string           `json:"message"`
	BloodType  models.BloodType `json:"blood_type"`
	Component  models.Component `json:"component"`
	Units      int              `json:"units"`
	ExpiryDate time.Time        `json:"expiry_date"`
}

// Alerts derives near-expiry warnings for the dashboard; CRITICAL once
// a unit is within three days of expiry.
func (sc *StockController) Alerts(c *gin.Context) {
	now := time.Now().UTC()
	units, err := sc.Repo.NearExpiryStock(c.Request.Context(), hospitalID(c), sc.Cfg.NearExpiryDays, now)
	if err != nil {
		sc.fail(c, err)
		return
	}

	alerts := make([]stockAlert, 0, len(units))
	for _, u := range units {
		days := models.DaysToExpiry(u.ExpiryDate, now)
		severity := models.NotifyWarning
		if days <= models.ExcludeNearExpiryDays {
			severity = models.NotifyCritical
		}
		alerts = append(alerts, stockAlert{
			Type:     "NEAR_EXPIRY",
			Severity: severity,
			Message: strconv.Itoa(u.UnitsAvailable) + " units of " + string(u.BloodType) + " " +
				string(u.Component) + " expiring in " + strconv.Itoa(days) + " days",
			BloodType:  u.BloodType,
			Component:  u.Component,
			Units:      u.UnitsAvailable,
			ExpiryDate: u.ExpiryDate,
		})
	}
	c.JSON(http.StatusOK, app.H{"alerts": alerts})
}
