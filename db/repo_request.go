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

// CreateRequest validates the target (when set) and records the request
// as pending.
func (r *Repo) CreateRequest(ctx context.Context, req *models.BloodRequest) error {
	if req.UnitsRequested < 1 {
		return apperr.New(apperr.Validation, "units requested must be at least 1")
	}
	if req.TargetHospitalID != nil {
		var target models.Hospital
		err := r.DB.WithContext(ctx).
			First(&target, "id = ? AND is_active = TRUE", *req.TargetHospitalID).Error
		if err != nil {
			return notFound(err, "target hospital")
		}
		if target.ID == req.RequestingHospitalID {
			return apperr.New(apperr.Validation, "cannot request blood from your own hospital")
		}
	}
	req.ID = uuid.NewString()
	req.Status = models.RequestPending
	req.UnitsFulfilled = 0
	return r.DB.WithContext(ctx).Create(req).Error
}

type RequestFilters struct {
	Direction string // incoming | outgoing | "" for both
	Status    models.RequestStatus
	Priority  models.Priority
	BloodType models.BloodType
}

// ListRequests applies the visibility rule: incoming means targeted at
// the hospital or broadcast by someone else, outgoing means authored by
// it.
func (r *Repo) ListRequests(ctx context.Context, hospitalID string, f RequestFilters) ([]models.BloodRequest, error) {
	tx := r.DB.WithContext(ctx).Model(&models.BloodRequest{}).Preload("RequestingHospital")

	incoming := "(target_hospital_id = ? OR target_hospital_id IS NULL) AND requesting_hospital_id <> ?"
	switch f.Direction {
	case "incoming":
		tx = tx.Where(incoming, hospitalID, hospitalID)
	case "outgoing":
		tx = tx.Where("requesting_hospital_id = ?", hospitalID)
	default:
		tx = tx.Where("requesting_hospital_id = ? OR ("+incoming+")", hospitalID, hospitalID, hospitalID)
	}

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		tx = tx.Where("priority = ?", f.Priority)
	}
	if f.BloodType != "" {
		tx = tx.Where("blood_type = ?", f.BloodType)
	}

	var reqs []models.BloodRequest
	err := tx.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// PendingIncomingRequests backs the dashboard card, most urgent first.
func (r *Repo) PendingIncomingRequests(ctx context.Context, hospitalID string) ([]models.BloodRequest, error) {
	var reqs []models.BloodRequest
	err := r.DB.WithContext(ctx).Preload("RequestingHospital").
		Where("(target_hospital_id = ? OR target_hospital_id IS NULL) AND requesting_hospital_id <> ?",
			hospitalID, hospitalID).
		Where("status = ?", models.RequestPending).
		Order("CASE priority WHEN 'very_critical' THEN 0 WHEN 'critical' THEN 1 ELSE 2 END, created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *Repo) GetRequest(ctx context.Context, hospitalID, requestID string) (*models.BloodRequest, error) {
	var req models.BloodRequest
	err := r.DB.WithContext(ctx).Preload("RequestingHospital").
		First(&req, "id = ?", requestID).Error
	if err != nil {
		return nil, notFound(err, "blood request")
	}
	if !req.VisibleTo(hospitalID) {
		return nil, apperr.New(apperr.Forbidden, "access denied")
	}
	return &req, nil
}

type RespondInput struct {
	RequestID             string
	RespondingHospitalID  string
	RespondingUserID      string
	UnitsOffered          int
	ResponseMessage       string
	EstimatedAvailability *time.Time
}

// Respond records an offer against a pending request. No reservation is
// taken yet; units are only committed when the requester accepts.
func (r *Repo) Respond(ctx context.Context, in RespondInput) (*models.RequestResponse, error) {
	if in.UnitsOffered < 1 {
		return nil, apperr.New(apperr.Validation, "units offered must be at least 1")
	}

	var req models.BloodRequest
	if err := r.DB.WithContext(ctx).First(&req, "id = ?", in.RequestID).Error; err != nil {
		return nil, notFound(err, "blood request")
	}
	if req.Status != models.RequestPending {
		return nil, apperr.New(apperr.State, "request is not pending")
	}
	if req.RequestingHospitalID == in.RespondingHospitalID {
		return nil, apperr.New(apperr.Validation, "cannot respond to your own request")
	}

	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.RequestResponse{}).
		Where("blood_request_id = ? AND responding_hospital_id = ?", in.RequestID, in.RespondingHospitalID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.New(apperr.State, "you have already responded to this request")
	}

	resp := models.RequestResponse{
		ID:                    uuid.NewString(),
		BloodRequestID:        in.RequestID,
		RespondingHospitalID:  in.RespondingHospitalID,
		RespondingUserID:      in.RespondingUserID,
		UnitsOffered:          in.UnitsOffered,
		ResponseMessage:       in.ResponseMessage,
		EstimatedAvailability: in.EstimatedAvailability,
	}
	if err := r.DB.WithContext(ctx).Create(&resp).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListResponses is restricted to the request owner.
func (r *Repo) ListResponses(ctx context.Context, hospitalID, requestID string) ([]models.RequestResponse, error) {
	var req models.BloodRequest
	if err := r.DB.WithContext(ctx).First(&req, "id = ?", requestID).Error; err != nil {
		return nil, notFound(err, "blood request")
	}
	if req.RequestingHospitalID != hospitalID {
		return nil, apperr.New(apperr.Forbidden, "only the requesting hospital can view responses")
	}

	var resps []models.RequestResponse
	err := r.DB.WithContext(ctx).Preload("RespondingHospital").
		Where("blood_request_id = ?", requestID).
		Order("created_at DESC").
		Find(&resps).Error
	return resps, err
}

// TransferQuantity is the partial-fulfillment rule: a transfer moves the
// smaller of what was offered and what the request still needs.
func TransferQuantity(unitsOffered, remainingNeed int) int {
	if unitsOffered < remainingNeed {
		return unitsOffered
	}
	return remainingNeed
}

type AcceptResponseResult struct {
	Request          models.BloodRequest `json:"request"`
	Transfers        []models.Transfer   `json:"transfers"`
	UnitsTransferred int                 `json:"units_transferred"`
}

// AcceptResponse commits an accepted offer: it moves units from the
// responder's ledger into the requester's, oldest expiry first, all in
// one transaction. Partial fulfillment is allowed: the request stays
// pending until units_fulfilled reaches units_requested, so further
// responses can still be accepted.
func (r *Repo) AcceptResponse(ctx context.Context, ownerHospitalID, requestID, responseID string, now time.Time) (*AcceptResponseResult, error) {
	var result AcceptResponseResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.BloodRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ? AND requesting_hospital_id = ?", requestID, ownerHospitalID).Error
		if err != nil {
			return notFound(err, "blood request")
		}
		if req.Status != models.RequestPending {
			return apperr.New(apperr.Conflict, "request is no longer pending")
		}

		var resp models.RequestResponse
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&resp, "id = ? AND blood_request_id = ?", responseID, requestID).Error
		if err != nil {
			return notFound(err, "response")
		}
		if resp.Accepted {
			return apperr.New(apperr.State, "response has already been accepted")
		}

		need := TransferQuantity(resp.UnitsOffered, req.RemainingNeed())
		if need < 1 {
			return apperr.New(apperr.Conflict, "request has no remaining need")
		}

		// Responder's matching stock, soonest expiry first, locked so a
		// concurrent offer/accept cannot claim the same units.
		var units []models.BloodUnit
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hospital_id = ? AND blood_type = ? AND component = ?",
				resp.RespondingHospitalID, req.BloodType, req.Component).
			Where("expiry_date > ? AND units_available > 0", now).
			Order("expiry_date").
			Find(&units).Error
		if err != nil {
			return err
		}

		left := need
		for i := range units {
			if left == 0 {
				break
			}
			take := units[i].UnitsAvailable
			if take > left {
				take = left
			}
			if err := reserveUnits(tx, units[i].ID, take); err != nil {
				return err
			}
			transfer, err := r.moveReservedUnits(tx, &units[i], ownerHospitalID, take, nil, &resp.ID, now)
			if err != nil {
				return err
			}
			result.Transfers = append(result.Transfers, *transfer)
			left -= take
		}
		if left > 0 {
			return apperr.New(apperr.InsufficientStock, "responding hospital does not have enough matching stock")
		}
		result.UnitsTransferred = need

		if err := tx.Model(&resp).Updates(map[string]interface{}{
			"accepted":    true,
			"accepted_at": now,
		}).Error; err != nil {
			return err
		}

		req.UnitsFulfilled += need
		if req.UnitsFulfilled >= req.UnitsRequested {
			req.Status = models.RequestFulfilled
			req.FulfilledAt = &now
		}
		if err := tx.Model(&req).Updates(map[string]interface{}{
			"units_fulfilled": req.UnitsFulfilled,
			"status":          req.Status,
			"fulfilled_at":    req.FulfilledAt,
		}).Error; err != nil {
			return err
		}
		result.Request = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type UpdateRequestInput struct {
	RequestID       string
	HospitalID      string
	Status          models.RequestStatus
	RejectionReason string
}

// UpdateRequestStatus applies the manual transitions: reject by an
// incoming viewer, cancel or fulfill by the owner. Terminal states are
// immutable.
func (r *Repo) UpdateRequestStatus(ctx context.Context, in UpdateRequestInput, now time.Time) (*models.BloodRequest, error) {
	var req models.BloodRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", in.RequestID).Error; err != nil {
			return notFound(err, "blood request")
		}

		switch in.Status {
		case models.RequestRejected:
			if !req.IncomingFor(in.HospitalID) {
				return apperr.New(apperr.Forbidden, "only a receiving hospital can reject a request")
			}
		case models.RequestCancelled, models.RequestFulfilled:
			if req.RequestingHospitalID != in.HospitalID {
				return apperr.New(apperr.Forbidden, "only the requesting hospital can update this request")
			}
		default:
			return apperr.Newf(apperr.Validation, "cannot set request status to %s", in.Status)
		}

		if !req.Status.CanTransitionTo(in.Status) {
			return apperr.Newf(apperr.State, "cannot move request from %s to %s", req.Status, in.Status)
		}

		updates := map[string]interface{}{"status": in.Status}
		switch in.Status {
		case models.RequestFulfilled:
			updates["fulfilled_at"] = now
		case models.RequestRejected:
			updates["rejection_reason"] = in.RejectionReason
		}
		if err := tx.Model(&req).Updates(updates).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CancelRequest is the owner's shorthand for cancelling a pending
// request.
func (r *Repo) CancelRequest(ctx context.Context, hospitalID, requestID string) error {
	res := r.DB.WithContext(ctx).Model(&models.BloodRequest{}).
		Where("id = ? AND requesting_hospital_id = ? AND status = ?",
			requestID, hospitalID, models.RequestPending).
		Update("status", models.RequestCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var req models.BloodRequest
		if err := r.DB.WithContext(ctx).
			First(&req, "id = ? AND requesting_hospital_id = ?", requestID, hospitalID).Error; err != nil {
			return notFound(err, "blood request")
		}
		return apperr.New(apperr.State, "can only cancel pending requests")
	}
	return nil
}
