package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/RichKitibwa/BloodLink/app"
	"github.com/RichKitibwa/BloodLink/apperr"
	"github.com/RichKitibwa/BloodLink/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

type registerReq struct {
	Email        string `json:"email" binding:"required,email"`
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Position     string `json:"position"`
	Role         string `json:"role"`
	HospitalCode string `json:"hospital_code" binding:"required"`
}

// Register creates a staff account bound to a hospital by its code.
func (uc *UserController) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		uc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}

	role := models.RoleHospitalStaff
	if in.Role != "" {
		role = models.Role(in.Role)
		if !role.Valid() || role == models.RoleAdmin {
			uc.fail(c, apperr.New(apperr.Validation, "invalid role"))
			return
		}
	}

	ctx := c.Request.Context()
	exists, err := uc.Repo.UserExists(ctx, in.Email, in.Username)
	if err != nil {
		uc.fail(c, err)
		return
	}
	if exists {
		uc.fail(c, apperr.New(apperr.Validation, "user with this email or username already exists"))
		return
	}

	hospital, err := uc.Repo.FindActiveHospitalByCode(ctx, in.HospitalCode)
	if err != nil {
		uc.fail(c, apperr.New(apperr.Validation, "invalid hospital code"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.fail(c, err)
		return
	}

	u := &models.User{
		ID:             uuid.NewString(),
		Email:          strings.ToLower(in.Email),
		Username:       in.Username,
		HashedPassword: string(hash),
		FullName:       in.FullName,
		Phone:          in.Phone,
		Position:       in.Position,
		Role:           role,
		HospitalID:     hospital.ID,
		IsActive:       true,
	}
	if err := uc.Repo.CreateUser(ctx, u); err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (uc *UserController) VerifyHospitalCode(c *gin.Context) {
	var in struct {
		HospitalCode string `json:"hospital_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		uc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	hospital, err := uc.Repo.FindActiveHospitalByCode(c.Request.Context(), in.HospitalCode)
	if err != nil {
		uc.fail(c, apperr.New(apperr.NotFound, "invalid hospital code"))
		return
	}
	c.JSON(http.StatusOK, app.H{
		"valid":         true,
		"hospital_name": hospital.Name,
	})
}

func (uc *UserController) Me(c *gin.Context) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), userID(c))
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (uc *UserController) UpdateMe(c *gin.Context) {
	var in struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		Position *string `json:"position"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		uc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	u, err := uc.Repo.FindUserByID(c.Request.Context(), userID(c))
	if err != nil {
		uc.fail(c, err)
		return
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Position != nil {
		u.Position = *in.Position
	}
	if err := uc.Repo.SaveUser(c.Request.Context(), u); err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Dashboard aggregates the cards shown after login.
func (uc *UserController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	hid := hospitalID(c)
	now := time.Now().UTC()

	pending, err := uc.Repo.PendingIncomingRequests(ctx, hid)
	if err != nil {
		uc.fail(c, err)
		return
	}
	critical := 0
	for _, r := range pending {
		if r.Priority != models.PriorityNormal {
			critical++
		}
	}
	nearExpiry, err := uc.Repo.NearExpiryStock(ctx, hid, uc.Cfg.NearExpiryDays, now)
	if err != nil {
		uc.fail(c, err)
		return
	}
	notifications, err := uc.Repo.ListNotifications(ctx, hid, true, 5)
	if err != nil {
		uc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, app.H{
		"pending_requests":     len(pending),
		"critical_requests":    critical,
		"near_expiry_units":    nearExpiry,
		"recent_notifications": notifications,
	})
}

func (uc *UserController) ListHospitals(c *gin.Context) {
	hs, err := uc.Repo.ListHospitals(c.Request.Context())
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"hospitals": hs})
}

type createHospitalReq struct {
	Name          string `json:"name" binding:"required"`
	HospitalCode  string `json:"hospital_code"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	District      string `json:"district"`
	Region        string `json:"region"`
	LicenseNumber string `json:"license_number"`
}

func (uc *UserController) CreateHospital(c *gin.Context) {
	var in createHospitalReq
	if err := c.ShouldBindJSON(&in); err != nil {
		uc.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}
	ctx := c.Request.Context()

	code := in.HospitalCode
	if code == "" {
		code = app.GenerateHospitalCode(in.Name, in.District, time.Now())
	}
	exists, err := uc.Repo.HospitalCodeExists(ctx, code)
	if err != nil {
		uc.fail(c, err)
		return
	}
	if exists {
		uc.fail(c, apperr.New(apperr.Validation, "hospital code already exists"))
		return
	}

	h := &models.Hospital{
		ID:            uuid.NewString(),
		Name:          in.Name,
		HospitalCode:  code,
		Email:         strings.ToLower(in.Email),
		Phone:         in.Phone,
		Address:       in.Address,
		District:      in.District,
		Region:        in.Region,
		LicenseNumber: in.LicenseNumber,
		IsActive:      true,
	}
	if err := uc.Repo.CreateHospital(ctx, h); err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}
