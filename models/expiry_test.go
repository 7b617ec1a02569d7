package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAvailabilityStatus(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   StockStatus
	}{
		{"well before expiry", now.AddDate(0, 0, 30), StatusAvailable},
		{"just outside window", now.AddDate(0, 0, 8), StatusAvailable},
		{"inside window", now.AddDate(0, 0, 3), StatusExpiresSoon},
		{"window boundary", now.AddDate(0, 0, 7), StatusExpiresSoon},
		{"hours before expiry", now.Add(6 * time.Hour), StatusExpiresSoon},
		{"exactly at expiry", now, StatusExpired},
		{"past expiry", now.AddDate(0, 0, -1), StatusExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, AvailabilityStatus(tt.expiry, now, NearExpiryDays))
		})
	}
}

func TestAvailabilityStatusConfiguredWindow(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 0, 10)

	// The same unit classifies differently when the window is widened.
	require.Equal(t, StatusAvailable, AvailabilityStatus(expiry, now, 7))
	require.Equal(t, StatusExpiresSoon, AvailabilityStatus(expiry, now, 14))
}

func TestAvailabilityStatusIsPure(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 0, 5)
	require.Equal(t,
		AvailabilityStatus(expiry, now, NearExpiryDays),
		AvailabilityStatus(expiry, now, NearExpiryDays))
}

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 10, DaysToExpiry(now.AddDate(0, 0, 10), now))
	require.Equal(t, 0, DaysToExpiry(now.Add(12*time.Hour), now))

	// Truncated toward zero: still 0 within the first day past expiry,
	// negative only after a full day.
	require.Equal(t, 0, DaysToExpiry(now.Add(-6*time.Hour), now))
	require.Equal(t, -1, DaysToExpiry(now.Add(-25*time.Hour), now))
}

func TestCriticalExpiry(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, CriticalExpiry(now.AddDate(0, 0, 5), now, CriticalExpiryDays))
	require.True(t, CriticalExpiry(now.AddDate(0, 0, 1), now, CriticalExpiryDays))
	require.False(t, CriticalExpiry(now.AddDate(0, 0, 6), now, CriticalExpiryDays))
	// Expired units are not critical, they are gone.
	require.False(t, CriticalExpiry(now, now, CriticalExpiryDays))
	require.False(t, CriticalExpiry(now.AddDate(0, 0, -1), now, CriticalExpiryDays))

	// Configured window moves the boundary.
	require.True(t, CriticalExpiry(now.AddDate(0, 0, 6), now, 10))
}

func TestMatchableUnits(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	u := BloodUnit{UnitsAvailable: 10, ExpiryDate: now.AddDate(0, 0, 10)}
	require.Equal(t, 10, u.MatchableUnits(now))
	require.False(t, u.Expired(now))

	// Expired rows stay visible but contribute nothing.
	u.ExpiryDate = now.AddDate(0, 0, -1)
	require.True(t, u.Expired(now))
	require.Equal(t, 0, u.MatchableUnits(now))
	require.Equal(t, 10, u.UnitsAvailable)
}
