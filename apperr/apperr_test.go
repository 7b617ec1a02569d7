package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := New(Conflict, "reservation lost")
	require.Equal(t, Conflict, KindOf(err))
	require.True(t, IsKind(err, Conflict))
	require.False(t, IsKind(err, NotFound))
	require.EqualError(t, err, "reservation lost")

	// Wrapped errors keep their kind.
	wrapped := fmt.Errorf("accepting response: %w", err)
	require.Equal(t, Conflict, KindOf(wrapped))

	require.Equal(t, Kind(0), KindOf(errors.New("plain")))
	require.Equal(t, Kind(0), KindOf(nil))
}

func TestNewf(t *testing.T) {
	err := Newf(NotFound, "blood unit %s not found", "abc")
	require.Equal(t, NotFound, KindOf(err))
	require.EqualError(t, err, "blood unit abc not found")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{InsufficientStock, http.StatusConflict},
		{State, http.StatusConflict},
		{Conflict, http.StatusConflict},
		{NotFound, http.StatusNotFound},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.want, HTTPStatus(New(tt.kind, "x")))
		})
	}

	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
