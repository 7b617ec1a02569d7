package app

import (
	"context"
	"strings"
	"time"

	"github.com/RichKitibwa/BloodLink/config"
	"github.com/RichKitibwa/BloodLink/db"
	"github.com/RichKitibwa/BloodLink/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstHospital seeds a hospital and its admin on an empty
// database so the first operator can log in. No-op unless configured
// and the hospitals table is empty.
func BootstrapFirstHospital(ctx context.Context, cfg config.Config, repo *db.Repo, log *zap.Logger) {
	if cfg.BootstrapHospital == "" || cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountHospitals(ctx)
	if err != nil || n > 0 {
		return
	}

	hospital := &models.Hospital{
		ID:           uuid.NewString(),
		Name:         cfg.BootstrapHospital,
		HospitalCode: GenerateHospitalCode(cfg.BootstrapHospital, "", time.Now()),
		Email:        cfg.BootstrapEmail,
		IsActive:     true,
	}
	if err := repo.CreateHospital(ctx, hospital); err != nil {
		log.Warn("bootstrap hospital failed", zap.Error(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Warn("bootstrap password hash failed", zap.Error(err))
		return
	}
	admin := &models.User{
		ID:             uuid.NewString(),
		Email:          cfg.BootstrapEmail,
		Username:       cfg.BootstrapEmail,
		HashedPassword: string(hash),
		Role:           models.RoleAdmin,
		HospitalID:     hospital.ID,
		IsActive:       true,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		log.Warn("bootstrap admin failed", zap.Error(err))
		return
	}

	log.Info("bootstrapped first hospital and admin",
		zap.String("hospital", hospital.Name),
		zap.String("hospital_code", hospital.HospitalCode),
		zap.String("admin", admin.Email),
	)
}

// GenerateHospitalCode derives a registration code from the hospital's
// name and district plus a year-month suffix for uniqueness.
func GenerateHospitalCode(name, district string, now time.Time) string {
	var b strings.Builder
	words := strings.Fields(name)
	for i, w := range words {
		if i >= 2 {
			break
		}
		if len(w) >= 2 {
			b.WriteString(strings.ToUpper(w[:2]))
		} else {
			b.WriteString(strings.ToUpper(w))
		}
	}
	dpart := "UGA"
	if len(district) >= 3 {
		dpart = strings.ToUpper(district[:3])
	}
	return b.String() + dpart + now.Format("0601")
}
