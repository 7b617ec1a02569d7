package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at boot from the environment (.env supported).
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr string
	RedisPwd  string

	WebOrigins []string
	SessionTTL time.Duration
	LogLevel   string

	// Expiry windows (days). Critical drives the donation auto-suggestion,
	// NearExpiry drives dashboard warnings.
	CriticalExpiryDays int
	NearExpiryDays     int

	// Optional first-run seed: created when the hospitals table is empty.
	BootstrapHospital string
	BootstrapEmail    string
	BootstrapPassword string
}

func LoadEnv() {
	_ = godotenv.Load()
}

func Load() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	getInt := func(k string, def int) int {
		if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
			return n
		}
		return def
	}

	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil {
		ttl = d
	}

	originsCSV := get("WEB_ORIGINS", "http://localhost:3000,http://localhost:5173")
	var origins []string
	for _, o := range strings.Split(originsCSV, ",") {
		if s := strings.TrimSpace(o); s != "" {
			origins = append(origins, s)
		}
	}

	return Config{
		Port:               get("PORT", "3001"),
		DBHost:             get("DB_HOST", "127.0.0.1"),
		DBUser:             get("DB_USER", "bloodlink_user"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             get("DB_NAME", "bloodlink_db"),
		DBPort:             get("DB_PORT", "5432"),
		RedisAddr:          get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:           os.Getenv("REDIS_PASSWORD"),
		WebOrigins:         origins,
		SessionTTL:         ttl,
		LogLevel:           get("LOG_LEVEL", "info"),
		CriticalExpiryDays: getInt("CRITICAL_EXPIRY_DAYS", 5),
		NearExpiryDays:     getInt("NEAR_EXPIRY_DAYS", 7),
		BootstrapHospital:  os.Getenv("BOOTSTRAP_HOSPITAL"),
		BootstrapEmail:     os.Getenv("BOOTSTRAP_EMAIL"),
		BootstrapPassword:  os.Getenv("BOOTSTRAP_PASSWORD"),
	}
}
