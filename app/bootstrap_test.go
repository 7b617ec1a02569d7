package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateHospitalCode(t *testing.T) {
	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "MUNAKAM2403", GenerateHospitalCode("Mulago National Referral", "Kampala", march))
	require.Equal(t, "NSHOUGA2403", GenerateHospitalCode("Nsambya Hospital", "", march))
	require.Equal(t, "STLUGUL2403", GenerateHospitalCode("St Lucia Clinic", "Gulu", march))

	// Short district falls back to the country default.
	require.Equal(t, "NSHOUGA2403", GenerateHospitalCode("Nsambya Hospital", "Ki", march))

	// Month suffix changes across months.
	april := march.AddDate(0, 1, 0)
	require.NotEqual(t,
		GenerateHospitalCode("Nsambya Hospital", "Kampala", march),
		GenerateHospitalCode("Nsambya Hospital", "Kampala", april))
}
