package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RichKitibwa/BloodLink/apperr"
)

func TestDupKey(t *testing.T) {
	err := dupKey(gorm.ErrDuplicatedKey, "batch number B1 already exists")
	require.True(t, apperr.IsKind(err, apperr.Validation))
	require.EqualError(t, err, "batch number B1 already exists")

	plain := errors.New("connection reset")
	require.Equal(t, plain, dupKey(plain, "unused"))
	require.NoError(t, dupKey(nil, "unused"))
}
