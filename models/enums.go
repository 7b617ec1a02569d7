package models

type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

func (t BloodType) Valid() bool {
	switch t {
	case APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative:
		return true
	}
	return false
}

type Component string

const (
	WholeBlood        Component = "Whole Blood"
	PackedCells       Component = "Packed Cells"
	FreshFrozenPlasma Component = "Fresh Frozen Plasma"
	Platelets         Component = "Platelets"
	Cryoprecipitate   Component = "Cryoprecipitate"
)

func (c Component) Valid() bool {
	switch c {
	case WholeBlood, PackedCells, FreshFrozenPlasma, Platelets, Cryoprecipitate:
		return true
	}
	return false
}

type Priority string

const (
	PriorityNormal       Priority = "normal"
	PriorityCritical     Priority = "critical"
	PriorityVeryCritical Priority = "very_critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityCritical, PriorityVeryCritical:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleHospitalStaff  Role = "hospital_staff"
	RoleBloodBankStaff Role = "blood_bank_staff"
	RoleViewer         Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHospitalStaff, RoleBloodBankStaff, RoleViewer:
		return true
	}
	return false
}

type OfferReason string

const (
	ReasonCriticalExpiry      OfferReason = "critical_expiry"
	ReasonExcessStock         OfferReason = "excess_stock"
	ReasonEmergencyResponse   OfferReason = "emergency_response"
	ReasonInventoryManagement OfferReason = "inventory_management"
	ReasonHospitalTransfer    OfferReason = "hospital_transfer"
	ReasonOther               OfferReason = "other"
)

func (r OfferReason) Valid() bool {
	switch r {
	case ReasonCriticalExpiry, ReasonExcessStock, ReasonEmergencyResponse,
		ReasonInventoryManagement, ReasonHospitalTransfer, ReasonOther:
		return true
	}
	return false
}
