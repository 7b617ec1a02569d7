package models

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestFulfilled, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestFulfilled, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the request state machine:
// pending -> approved|rejected|cancelled|fulfilled, approved ->
// fulfilled|cancelled, terminal states are immutable.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestPending:
		return next == RequestApproved || next == RequestRejected ||
			next == RequestCancelled || next == RequestFulfilled
	case RequestApproved:
		return next == RequestFulfilled || next == RequestCancelled
	}
	return false
}

// BloodRequest is one hospital's ask for blood, targeted at a single
// hospital or broadcast to all (nil target).
type BloodRequest struct {
	ID                   string  `gorm:"type:uuid;primaryKey" json:"id"`
	RequestingHospitalID string  `gorm:"type:uuid;index;not null" json:"requesting_hospital_id"`
	TargetHospitalID     *string `gorm:"type:uuid;index" json:"target_hospital_id,omitempty"`
	CreatedByUserID      string  `gorm:"type:uuid" json:"created_by_user_id"`

	BloodType      BloodType     `gorm:"size:4;not null;index" json:"blood_type"`
	Component      Component     `gorm:"size:40;not null" json:"component"`
	UnitsRequested int           `gorm:"not null" json:"units_requested"`
	UnitsFulfilled int           `gorm:"not null;default:0" json:"units_fulfilled"`
	Priority       Priority      `gorm:"size:20;not null;default:'normal';index" json:"priority"`
	Status         RequestStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Reason          string     `gorm:"type:text" json:"reason,omitempty"`
	PatientDetails  string     `gorm:"type:text" json:"patient_details,omitempty"`
	UrgencyNotes    string     `gorm:"type:text" json:"urgency_notes,omitempty"`
	ExpectedUseDate *time.Time `json:"expected_use_date,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	FulfilledAt     *time.Time `json:"fulfilled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RequestingHospital *Hospital `gorm:"foreignKey:RequestingHospitalID" json:"requesting_hospital,omitempty"`
}

func (BloodRequest) TableName() string { return "blood_requests" }

// Broadcast reports whether the request is visible to every hospital.
func (r *BloodRequest) Broadcast() bool { return r.TargetHospitalID == nil }

// IncomingFor reports whether hospitalID sees this request in its
// incoming list: targeted at it, or broadcast by someone else.
func (r *BloodRequest) IncomingFor(hospitalID string) bool {
	if r.RequestingHospitalID == hospitalID {
		return false
	}
	return r.Broadcast() || *r.TargetHospitalID == hospitalID
}

// VisibleTo covers detail reads: requester, target, or any hospital for
// broadcasts.
func (r *BloodRequest) VisibleTo(hospitalID string) bool {
	return r.RequestingHospitalID == hospitalID || r.Broadcast() ||
		*r.TargetHospitalID == hospitalID
}

// RemainingNeed is the quantity still unfulfilled.
func (r *BloodRequest) RemainingNeed() int {
	if n := r.UnitsRequested - r.UnitsFulfilled; n > 0 {
		return n
	}
	return 0
}

type RequestResponse struct {
	ID                   string `gorm:"type:uuid;primaryKey" json:"id"`
	BloodRequestID       string `gorm:"type:uuid;index;not null" json:"blood_request_id"`
	RespondingHospitalID string `gorm:"type:uuid;index;not null" json:"responding_hospital_id"`
	RespondingUserID     string `gorm:"type:uuid" json:"responding_user_id"`

	UnitsOffered          int        `gorm:"not null" json:"units_offered"`
	ResponseMessage       string     `gorm:"type:text" json:"response_message,omitempty"`
	EstimatedAvailability *time.Time `json:"estimated_availability,omitempty"`
	Accepted              bool       `gorm:"not null;default:false" json:"accepted"`
	AcceptedAt            *time.Time `json:"accepted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	RespondingHospital *Hospital `gorm:"foreignKey:RespondingHospitalID" json:"responding_hospital,omitempty"`
}

func (RequestResponse) TableName() string { return "request_responses" }
