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

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

type createRequestReq struct {
	BloodType        models.BloodType `json:"blood_type" binding:"required"`
	Component        models.Component `json:"component" binding:"required"`
	UnitsRequested   int              `json:"units_requested" binding:"required"`
	Priority         models.Priority  `json:"priority"`
	TargetHospitalID *string          `json:"target_hospital_id"`
	Reason           string           `json:"reason"`
	PatientDetails   string           `json:"patient_details"`
	UrgencyNotes     string           `json:"urgency_notes"`
	ExpectedUseDate  *time.Time       `json:"expected_use_date"`
}

// Create raises a request; nil target broadcasts it to every hospital.
func (rc *RequestController) Create(c *gin.Context) {
	var in createRequestReq
	if err := c.ShouldBindJSON(&in); err != nil {
		rc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	if !in.BloodType.Valid() {
		rc.fail(c, apperr.New(apperr.Validation, "invalid blood type"))
		return
	}
	if !in.Component.Valid() {
		rc.fail(c, apperr.New(apperr.Validation, "invalid component"))
		return
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !priority.Valid() {
		rc.fail(c, apperr.New(apperr.Validation, "invalid priority"))
		return
	}

	ctx := c.Request.Context()
	req := &models.BloodRequest{
		RequestingHospitalID: hospitalID(c),
		TargetHospitalID:     in.TargetHospitalID,
		CreatedByUserID:      userID(c),
		BloodType:            in.BloodType,
		Component:            in.Component,
		UnitsRequested:       in.UnitsRequested,
		Priority:             priority,
		Reason:               in.Reason,
		PatientDetails:       in.PatientDetails,
		UrgencyNotes:         in.UrgencyNotes,
		ExpectedUseDate:      in.ExpectedUseDate,
	}
	if err := rc.Repo.CreateRequest(ctx, req); err != nil {
		rc.fail(c, err)
		return
	}
	app.RequestsCreatedTotal.Inc()

	if hospital := rc.callerHospital(c); hospital != nil {
		notifType := models.NotifyInfo
		title := "Blood Request"
		if priority != models.PriorityNormal {
			notifType = models.NotifyCritical
			title = "URGENT Blood Request"
		}
		_ = rc.Repo.CreateNotification(ctx, &models.Notification{
			RecipientHospitalID: in.TargetHospitalID, // nil broadcasts
			Title:               title,
			Message: hospital.Name + " is requesting " + strconv.Itoa(in.UnitsRequested) +
				" units of " + string(in.BloodType) + " " + string(in.Component),
			NotificationType: notifType,
			ActionURL:        "/requests/" + req.ID,
		})
	}

	c.JSON(http.StatusCreated, req)
}

// List returns requests visible to the hospital, filtered by direction.
func (rc *RequestController) List(c *gin.Context) {
	direction := c.Query("direction")
	switch direction {
	case "", "incoming", "outgoing":
	default:
		rc.fail(c, apperr.New(apperr.Validation, "direction must be incoming or outgoing"))
		return
	}
	f := db.RequestFilters{
		Direction: direction,
		Status:    models.RequestStatus(c.Query("status")),
		Priority:  models.Priority(c.Query("priority")),
		BloodType: models.BloodType(c.Query("blood_type")),
	}
	reqs, err := rc.Repo.ListRequests(c.Request.Context(), hospitalID(c), f)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": reqs})
}

func (rc *RequestController) Pending(c *gin.Context) {
	reqs, err := rc.Repo.PendingIncomingRequests(c.Request.Context(), hospitalID(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": reqs})
}

func (rc *RequestController) Get(c *gin.Context) {
	req, err := rc.Repo.GetRequest(c.Request.Context(), hospitalID(c), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type respondReq struct {
	UnitsOffered          int        `json:"units_offered" binding:"required"`
	ResponseMessage       string     `json:"response_message"`
	EstimatedAvailability *time.Time `json:"estimated_availability"`
}

// Respond records an offer against a pending request.
func (rc *RequestController) Respond(c *gin.Context) {
	var in respondReq
	if err := c.ShouldBindJSON(&in); err != nil {
		rc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}

	ctx := c.Request.Context()
	resp, err := rc.Repo.Respond(ctx, db.RespondInput{
		RequestID:             c.Param("id"),
		RespondingHospitalID:  hospitalID(c),
		RespondingUserID:      userID(c),
		UnitsOffered:          in.UnitsOffered,
		ResponseMessage:       in.ResponseMessage,
		EstimatedAvailability: in.EstimatedAvailability,
	})
	if err != nil {
		rc.fail(c, err)
		return
	}

	if hospital := rc.callerHospital(c); hospital != nil {
		if req, err := rc.Repo.GetRequest(ctx, hospitalID(c), c.Param("id")); err == nil {
			owner := req.RequestingHospitalID
			_ = rc.Repo.CreateNotification(ctx, &models.Notification{
				RecipientHospitalID: &owner,
				Title:               "Response to Blood Request",
				Message:             hospital.Name + " can provide " + strconv.Itoa(in.UnitsOffered) + " units",
				NotificationType:    models.NotifySuccess,
				ActionURL:           "/requests/" + req.ID,
			})
		}
	}

	c.JSON(http.StatusCreated, resp)
}

func (rc *RequestController) Responses(c *gin.Context) {
	resps, err := rc.Repo.ListResponses(c.Request.Context(), hospitalID(c), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": resps})
}

// AcceptResponse commits the transfer for one response. Partial
// fulfillment keeps the request pending for its remaining need.
func (rc *RequestController) AcceptResponse(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := rc.Repo.AcceptResponse(ctx, hospitalID(c), c.Param("id"), c.Param("rid"), time.Now().UTC())
	if err != nil {
		rc.fail(c, err)
		return
	}
	app.TransfersTotal.Inc()
	app.UnitsTransferredTotal.Add(float64(result.UnitsTransferred))
	rc.Log.Info("request response accepted",
		zap.String("request", result.Request.ID),
		zap.Int("units", result.UnitsTransferred),
		zap.String("status", string(result.Request.Status)),
	)

	if hospital := rc.callerHospital(c); hospital != nil && len(result.Transfers) > 0 {
		responder := result.Transfers[0].FromHospitalID
		_ = rc.Repo.CreateNotification(ctx, &models.Notification{
			RecipientHospitalID: &responder,
			Title:               "Blood Request Response Accepted",
			Message:             hospital.Name + " has accepted your offer",
			NotificationType:    models.NotifySuccess,
		})
	}

	c.JSON(http.StatusOK, result)
}

type updateRequestReq struct {
	Status          models.RequestStatus `json:"status" binding:"required"`
	RejectionReason string               `json:"rejection_reason"`
}

// Update applies the manual status transitions (reject, cancel,
// fulfill).
func (rc *RequestController) Update(c *gin.Context) {
	var in updateRequestReq
	if err := c.ShouldBindJSON(&in); err != nil {
		rc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	if !in.Status.Valid() {
		rc.fail(c, apperr.New(apperr.Validation, "invalid request status"))
		return
	}

	req, err := rc.Repo.UpdateRequestStatus(c.Request.Context(), db.UpdateRequestInput{
		RequestID:       c.Param("id"),
		HospitalID:      hospitalID(c),
		Status:          in.Status,
		RejectionReason: in.RejectionReason,
	}, time.Now().UTC())
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (rc *RequestController) Cancel(c *gin.Context) {
	if err := rc.Repo.CancelRequest(c.Request.Context(), hospitalID(c), c.Param("id")); err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "blood request cancelled"})
}
