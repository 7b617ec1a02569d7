package models

import "time"

// Default expiry windows in days. NearExpiry flags dashboard warnings,
// Critical drives the donation auto-suggestion; both are overridable via
// config. ExcludeNearExpiry is the fixed search cutoff.
const (
	NearExpiryDays        = 7
	CriticalExpiryDays    = 5
	ExcludeNearExpiryDays = 3
)

type StockStatus string

const (
	StatusExpired     StockStatus = "Expired"
	StatusExpiresSoon StockStatus = "Expires Soon"
	StatusAvailable   StockStatus = "Available"
)

// AvailabilityStatus classifies a unit by its expiry date against the
// near-expiry window. It is computed at read time, never stored, so it
// cannot drift from the clock.
func AvailabilityStatus(expiryDate, now time.Time, nearExpiryDays int) StockStatus {
	if !now.Before(expiryDate) {
		return StatusExpired
	}
	if DaysToExpiry(expiryDate, now) <= nearExpiryDays {
		return StatusExpiresSoon
	}
	return StatusAvailable
}

// DaysToExpiry is the number of whole days until expiry, truncated
// toward zero: it reads 0 during the first day past expiry and goes
// negative after that. Callers that need an expired check compare
// against the expiry time directly.
func DaysToExpiry(expiryDate, now time.Time) int {
	return int(expiryDate.Sub(now).Hours() / 24)
}

// CriticalExpiry reports whether an unexpired unit is inside the
// critical window and should be suggested for donation.
func CriticalExpiry(expiryDate, now time.Time, criticalDays int) bool {
	return now.Before(expiryDate) && DaysToExpiry(expiryDate, now) <= criticalDays
}
