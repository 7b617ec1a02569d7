package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBloodTypeValid(t *testing.T) {
	for _, bt := range []BloodType{APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative} {
		require.Truef(t, bt.Valid(), "%s", bt)
	}
	require.False(t, BloodType("").Valid())
	require.False(t, BloodType("a+").Valid())
	require.False(t, BloodType("AB").Valid())
}

func TestComponentValid(t *testing.T) {
	for _, c := range []Component{WholeBlood, PackedCells, FreshFrozenPlasma, Platelets, Cryoprecipitate} {
		require.Truef(t, c.Valid(), "%s", c)
	}
	require.False(t, Component("").Valid())
	require.False(t, Component("plasma").Valid())
}

func TestPriorityAndRoleValid(t *testing.T) {
	require.True(t, PriorityVeryCritical.Valid())
	require.False(t, Priority("urgent").Valid())

	require.True(t, RoleBloodBankStaff.Valid())
	require.False(t, Role("superuser").Valid())
}

func TestOfferReasonValid(t *testing.T) {
	require.True(t, ReasonCriticalExpiry.Valid())
	require.True(t, ReasonOther.Valid())
	require.False(t, OfferReason("expiring").Valid())
}
