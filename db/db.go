package db

import (
	"fmt"
	"log"

	"github.com/RichKitibwa/BloodLink/config"
	"github.com/RichKitibwa/BloodLink/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB(cfg config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Hospital{},
		&models.User{},
		&models.BloodUnit{},
		&models.DonationOffer{},
		&models.BloodRequest{},
		&models.RequestResponse{},
		&models.Transfer{},
		&models.Notification{},
	); err != nil {
		return err
	}

	// At most one open offer per ledger unit: an offer reserves the
	// unit's whole available quantity, so a second open offer would
	// always be a double-commitment.
	if err := db.Exec(`
	  CREATE UNIQUE INDEX IF NOT EXISTS donation_offers_one_open_per_unit
	  ON donation_offers (blood_unit_id)
	  WHERE status = 'OFFERED';
	`).Error; err != nil {
		return err
	}

	// One response per hospital per request.
	if err := db.Exec(`
	  CREATE UNIQUE INDEX IF NOT EXISTS request_responses_one_per_hospital
	  ON request_responses (blood_request_id, responding_hospital_id);
	`).Error; err != nil {
		return err
	}

	// Matching reads scan open offers and pending requests constantly.
	if err := db.Exec(`
	  CREATE INDEX IF NOT EXISTS donation_offers_open_created_desc
	  ON donation_offers (created_at DESC)
	  WHERE status = 'OFFERED';
	`).Error; err != nil {
		return err
	}
	if err := db.Exec(`
	  CREATE INDEX IF NOT EXISTS blood_requests_pending_created_desc
	  ON blood_requests (created_at DESC)
	  WHERE status = 'pending';
	`).Error; err != nil {
		return err
	}

	return nil
}
