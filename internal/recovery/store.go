package recovery

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "recovery:"

// Store keeps recovery codes in the cache, one per email, until they expire
// or are verified.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func codeKey(email string) string {
	return keyPrefix + email
}

func grantKey(email string) string {
	return keyPrefix + "verified:" + email
}

// Save replaces any code previously issued for email.
func (s *Store) Save(ctx context.Context, email, code string) error {
	return s.rdb.Set(ctx, codeKey(email), code, s.ttl).Err()
}

// Match compares code with the stored one. A mismatch leaves the code in
// place. On a match the key is deleted and only the caller whose delete
// removed it gets true.
func (s *Store) Match(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.rdb.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	removed, err := s.rdb.Del(ctx, codeKey(email)).Result()
	if err != nil {
		return false, err
	}

	return removed == 1, nil
}

// GrantReset records that email proved control of its inbox.
func (s *Store) GrantReset(ctx context.Context, email string) error {
	return s.rdb.Set(ctx, grantKey(email), "1", s.ttl).Err()
}

// ConsumeGrant reports whether a reset grant existed and removes it.
func (s *Store) ConsumeGrant(ctx context.Context, email string) (bool, error) {
	removed, err := s.rdb.Del(ctx, grantKey(email)).Result()
	if err != nil {
		return false, err
	}
	return removed == 1, nil
}
