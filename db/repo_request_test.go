package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransferQuantity(t *testing.T) {
	// Offer covers the need.
	require.Equal(t, 5, TransferQuantity(10, 5))
	require.Equal(t, 5, TransferQuantity(5, 5))

	// Offer falls short: take everything offered, request stays open.
	require.Equal(t, 3, TransferQuantity(3, 5))

	// A fully satisfied request needs nothing more.
	require.Equal(t, 0, TransferQuantity(7, 0))
}
