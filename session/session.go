package session

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront/model"
)

const keyPrefix = "session:"

// Store keeps session records in redis, keyed by a random session id that
// travels in a cookie. The record holds only the user id; the user row is
// looked up fresh on every request.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	sid := uuid.NewString()
	err := s.Client.Set(ctx, keyPrefix+sid, strconv.FormatUint(uint64(userID), 10), s.TTL).Err()
	if err != nil {
		return "", err
	}
	return sid, nil
}

func (s *Store) Get(ctx context.Context, sid string) (uint, error) {
	val, err := s.Client.Get(ctx, keyPrefix+sid).Result()
	if err == redis.Nil {
		return 0, model.ErrUnauthorized
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, model.ErrUnauthorized
	}
	return uint(id), nil
}

func (s *Store) Destroy(ctx context.Context, sid string) error {
	return s.Client.Del(ctx, keyPrefix+sid).Err()
}
