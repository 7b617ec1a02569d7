package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateDistanceKm(t *testing.T) {
	mulago := &Hospital{Region: "Central", District: "Kampala"}
	nsambya := &Hospital{Region: "Central", District: "Kampala"}
	entebbe := &Hospital{Region: "Central", District: "Wakiso"}
	gulu := &Hospital{Region: "Northern", District: "Gulu"}

	requireKm := func(want int, a, b *Hospital) {
		t.Helper()
		got := EstimateDistanceKm(a, b)
		require.NotNil(t, got)
		require.Equal(t, want, *got)
	}

	requireKm(5, mulago, nsambya)
	requireKm(50, mulago, entebbe)
	requireKm(200, mulago, gulu)

	// Symmetric.
	requireKm(50, entebbe, mulago)

	// Empty fields never match each other.
	requireKm(200, &Hospital{}, &Hospital{})
	requireKm(200, &Hospital{Region: "Central"}, &Hospital{District: "Kampala"})

	require.Nil(t, EstimateDistanceKm(nil, mulago))
	require.Nil(t, EstimateDistanceKm(mulago, nil))
}
