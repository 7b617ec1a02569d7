package db

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RichKitibwa/BloodLink/models"
)

func TestGenerateBatchNumber(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	batch := GenerateBatchNumber(now)
	require.Regexp(t, regexp.MustCompile(`^BL-20240315-[0-9A-F]{8}$`), batch)

	// Suffixes are random, so consecutive calls differ.
	require.NotEqual(t, batch, GenerateBatchNumber(now))
}

func TestSortStockViews(t *testing.T) {
	km := func(n int) *int { return &n }
	views := []StockView{
		{HospitalName: "A", EstimatedDistanceKm: nil},
		{HospitalName: "B", EstimatedDistanceKm: km(200)},
		{HospitalName: "C", EstimatedDistanceKm: km(5)},
		{HospitalName: "D", EstimatedDistanceKm: km(50)},
	}

	sortStockViews(views, "distance")
	got := []string{views[0].HospitalName, views[1].HospitalName, views[2].HospitalName, views[3].HospitalName}
	require.Equal(t, []string{"C", "D", "B", "A"}, got)

	views = []StockView{
		{HospitalName: "A", BloodUnit: models.BloodUnit{UnitsAvailable: 2}},
		{HospitalName: "B", BloodUnit: models.BloodUnit{UnitsAvailable: 9}},
		{HospitalName: "C", BloodUnit: models.BloodUnit{UnitsAvailable: 4}},
	}
	sortStockViews(views, "units_available")
	got = []string{views[0].HospitalName, views[1].HospitalName, views[2].HospitalName}
	require.Equal(t, []string{"B", "C", "A"}, got)

	// Default keeps the query's expiry order.
	views = []StockView{{HospitalName: "A"}, {HospitalName: "B"}}
	sortStockViews(views, "expiry_date")
	require.Equal(t, "A", views[0].HospitalName)
}
