package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Needs a real Redis; point TEST_REDIS_ADDR at one to run.
func testStore(t *testing.T) *TokenStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return NewTokenStore(rdb, time.Minute)
}

func TestTokenStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	token := uuid.NewString()
	uid := uuid.NewString()
	hid := uuid.NewString()
	require.NoError(t, s.Create(ctx, token, uid, hid))

	sess, err := s.Get(ctx, token)
	require.NoError(t, err)
	require.Equal(t, uid, sess.UserID)
	require.Equal(t, hid, sess.HospitalID)

	require.NoError(t, s.Delete(ctx, token))
	_, err = s.Get(ctx, token)
	require.Error(t, err)
}

func TestTokenStoreRevokeAllForUser(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	uid := uuid.NewString()
	hid := uuid.NewString()
	tok1, tok2 := uuid.NewString(), uuid.NewString()
	require.NoError(t, s.Create(ctx, tok1, uid, hid))
	require.NoError(t, s.Create(ctx, tok2, uid, hid))

	otherUID := uuid.NewString()
	otherTok := uuid.NewString()
	require.NoError(t, s.Create(ctx, otherTok, otherUID, hid))

	// Every session for the user dies at once; other users keep theirs.
	require.NoError(t, s.RevokeAllForUser(ctx, uid))
	_, err := s.Get(ctx, tok1)
	require.Error(t, err)
	_, err = s.Get(ctx, tok2)
	require.Error(t, err)
	sess, err := s.Get(ctx, otherTok)
	require.NoError(t, err)
	require.Equal(t, otherUID, sess.UserID)
}
