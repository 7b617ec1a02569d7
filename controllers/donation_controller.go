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
	"go.uber.org/zap"
)

type DonationController struct{ *Srv }

func NewDonationController(s *Srv) *DonationController { return &DonationController{Srv: s} }

// CriticalExpiry lists the units the schedule form should pre-select.
func (dc *DonationController) CriticalExpiry(c *gin.Context) {
	units, err := dc.Repo.CriticalExpiryUnits(c.Request.Context(), hospitalID(c), time.Now().UTC())
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": units})
}

type scheduleReq struct {
	BloodStockIDs []string           `json:"blood_stock_ids" binding:"required"`
	Reason        models.OfferReason `json:"reason"`
	Notes         string             `json:"notes"`
}

// Schedule offers the selected units for donation, all-or-nothing.
func (dc *DonationController) Schedule(c *gin.Context) {
	var in scheduleReq
	if err := c.ShouldBindJSON(&in); err != nil {
		dc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	if in.Reason != "" && !in.Reason.Valid() {
		dc.fail(c, apperr.New(apperr.Validation, "invalid donation reason"))
		return
	}

	ctx := c.Request.Context()
	offers, err := dc.Repo.ScheduleDonations(ctx, db.ScheduleDonationsInput{
		HospitalID: hospitalID(c),
		UserID:     userID(c),
		UnitIDs:    in.BloodStockIDs,
		Reason:     in.Reason,
		Notes:      in.Notes,
	}, time.Now().UTC())
	if err != nil {
		dc.fail(c, err)
		return
	}

	if hospital := dc.callerHospital(c); hospital != nil {
		_ = dc.Repo.CreateNotification(ctx, &models.Notification{
			Title:            "Blood Units Available for Donation",
			Message:          hospital.Name + " has scheduled " + strconv.Itoa(len(offers)) + " blood unit(s) for donation",
			NotificationType: models.NotifyInfo,
		})
	}

	c.JSON(http.StatusCreated, app.H{"scheduled_count": len(offers), "offers": offers})
}

// Available lists other hospitals' open offers.
func (dc *DonationController) Available(c *gin.Context) {
	f := db.DonationFilters{
		BloodType:          models.BloodType(c.Query("blood_type")),
		Component:          models.Component(c.Query("component")),
		Region:             c.Query("region"),
		IncludeOwnHospital: !queryBool(c, "exclude_own_hospital", true),
		SortBy:             c.DefaultQuery("sort_by", "expiry_date"),
	}
	views, err := dc.Repo.AvailableDonations(c.Request.Context(), dc.callerHospital(c), f, time.Now().UTC())
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": views})
}

func (dc *DonationController) MySchedules(c *gin.Context) {
	offers, err := dc.Repo.MyDonationSchedules(c.Request.Context(), hospitalID(c), time.Now().UTC())
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": offers})
}

// Accept performs the atomic transfer for an open offer. A losing
// concurrent acceptance surfaces as a conflict the client retries after
// re-listing.
func (dc *DonationController) Accept(c *gin.Context) {
	offerID := c.Param("id")
	ctx := c.Request.Context()

	transfer, err := dc.Repo.AcceptDonation(ctx, hospitalID(c), offerID, time.Now().UTC())
	if err != nil {
		dc.fail(c, err)
		return
	}
	app.TransfersTotal.Inc()
	app.UnitsTransferredTotal.Add(float64(transfer.Units))
	dc.Log.Info("donation accepted",
		zap.String("offer", offerID),
		zap.String("from", transfer.FromHospitalID),
		zap.String("to", transfer.ToHospitalID),
		zap.Int("units", transfer.Units),
	)

	if hospital := dc.callerHospital(c); hospital != nil {
		donorID := transfer.FromHospitalID
		_ = dc.Repo.CreateNotification(ctx, &models.Notification{
			RecipientHospitalID: &donorID,
			Title:               "Donation Accepted",
			Message:             hospital.Name + " has accepted your blood donation (batch " + transfer.BatchNumber + ")",
			NotificationType:    models.NotifySuccess,
		})
	}

	c.JSON(http.StatusOK, app.H{"message": "donation accepted", "transfer": transfer})
}

// Withdraw cancels the hospital's own open offer.
func (dc *DonationController) Withdraw(c *gin.Context) {
	if err := dc.Repo.WithdrawOffer(c.Request.Context(), hospitalID(c), c.Param("id")); err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "donation schedule withdrawn"})
}
