package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOfferEffectiveStatus(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := &DonationOffer{Status: OfferOffered, ExpiresAt: &future}
	require.Equal(t, OfferOffered, open.EffectiveStatus(now))

	lapsed := &DonationOffer{Status: OfferOffered, ExpiresAt: &past}
	require.Equal(t, OfferExpired, lapsed.EffectiveStatus(now))
	// The sweep is read-only.
	require.Equal(t, OfferOffered, lapsed.Status)

	atBoundary := &DonationOffer{Status: OfferOffered, ExpiresAt: &now}
	require.Equal(t, OfferExpired, atBoundary.EffectiveStatus(now))

	noDeadline := &DonationOffer{Status: OfferOffered}
	require.Equal(t, OfferOffered, noDeadline.EffectiveStatus(now))

	// Closed offers never flip, expired deadline or not.
	accepted := &DonationOffer{Status: OfferAccepted, ExpiresAt: &past}
	require.Equal(t, OfferAccepted, accepted.EffectiveStatus(now))
	withdrawn := &DonationOffer{Status: OfferWithdrawn, ExpiresAt: &past}
	require.Equal(t, OfferWithdrawn, withdrawn.EffectiveStatus(now))
}
