package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps opaque bearer tokens in Redis. The token value
// carries no claims; everything lives server-side, so revocation is a
// delete.
type TokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTokenStore(rdb *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{rdb: rdb, ttl: ttl}
}

type Session struct {
	UserID     string `json:"uid"`
	HospitalID string `json:"hid"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
}

func key(token string) string      { return fmt.Sprintf("bl:sess:%s", token) }
func userSetKey(uid string) string { return fmt.Sprintf("bl:user_sessions:%s", uid) }

func (s *TokenStore) Create(ctx context.Context, token, userID, hospitalID string) error {
	now := time.Now()
	b, _ := json.Marshal(Session{
		UserID:     userID,
		HospitalID: hospitalID,
		IssuedAt:   now.Unix(),
		ExpiresAt:  now.Add(s.ttl).Unix(),
	})
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(token), b, s.ttl)
	pipe.SAdd(ctx, userSetKey(userID), token)
	pipe.Expire(ctx, userSetKey(userID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *TokenStore) Get(ctx context.Context, token string) (*Session, error) {
	b, err := s.rdb.Get(ctx, key(token)).Bytes()
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	sess, _ := s.Get(ctx, token)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(token))
	if sess != nil {
		pipe.SRem(ctx, userSetKey(sess.UserID), token)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForUser drops every live token for a user, e.g. on
// deactivation.
func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	tokens, err := s.rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	for _, t := range tokens {
		pipe.Del(ctx, key(t))
	}
	pipe.Del(ctx, userSetKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}
