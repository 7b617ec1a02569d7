package db

import (
	"context"
	"errors"
	"strings"

	"github.com/RichKitibwa/BloodLink/apperr"
	"github.com/RichKitibwa/BloodLink/config"
	"github.com/RichKitibwa/BloodLink/models"

	"gorm.io/gorm"
)

// Repo carries the DB handle plus the configured expiry windows so the
// query layer and the pure classification agree on the same thresholds.
type Repo struct {
	DB *gorm.DB

	criticalExpiryDays int
	nearExpiryDays     int
}

func NewRepo(db *gorm.DB, cfg config.Config) *Repo {
	r := &Repo{
		DB:                 db,
		criticalExpiryDays: cfg.CriticalExpiryDays,
		nearExpiryDays:     cfg.NearExpiryDays,
	}
	if r.criticalExpiryDays <= 0 {
		r.criticalExpiryDays = models.CriticalExpiryDays
	}
	if r.nearExpiryDays <= 0 {
		r.nearExpiryDays = models.NearExpiryDays
	}
	return r
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Newf(apperr.NotFound, "%s not found", what)
	}
	return err
}

// dupKey maps a unique-index violation to a validation error; anything
// else passes through. Needs TranslateError enabled on the gorm config.
func dupKey(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.Validation, msg)
	}
	return err
}

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Preload("Hospital").First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// FindUserByLogin matches username or email, the way the login form
// accepts either.
func (r *Repo) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var u models.User
	err := r.DB.WithContext(ctx).Preload("Hospital").
		Where("LOWER(username) = ? OR LOWER(email) = ?", login, login).
		First(&u).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *Repo) UserExists(ctx context.Context, email, username string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID string) error {
	// Database time avoids clock skew and concurrent overwrite.
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_seen_at":  gorm.Expr("NOW()"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

// Hospitals

func (r *Repo) CreateHospital(ctx context.Context, h *models.Hospital) error {
	return r.DB.WithContext(ctx).Create(h).Error
}

func (r *Repo) FindHospitalByID(ctx context.Context, id string) (*models.Hospital, error) {
	var h models.Hospital
	if err := r.DB.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "hospital")
	}
	return &h, nil
}

// FindActiveHospitalByCode backs registration and code verification.
func (r *Repo) FindActiveHospitalByCode(ctx context.Context, code string) (*models.Hospital, error) {
	var h models.Hospital
	err := r.DB.WithContext(ctx).
		Where("hospital_code = ? AND is_active = TRUE", strings.TrimSpace(code)).
		First(&h).Error
	if err != nil {
		return nil, notFound(err, "hospital")
	}
	return &h, nil
}

func (r *Repo) HospitalCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Hospital{}).
		Where("hospital_code = ?", code).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	var hs []models.Hospital
	err := r.DB.WithContext(ctx).Order("name").Find(&hs).Error
	return hs, err
}

func (r *Repo) CountHospitals(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Hospital{}).Count(&n).Error
	return n, err
}
