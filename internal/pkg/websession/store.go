package websession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// ErrNotFound reports that no session state exists (or it expired) for the id.
var ErrNotFound = errors.New("websession: session not found")

// DefaultTTL is used when a store is built with a non-positive TTL.
const DefaultTTL = 30 * time.Minute

// Store persists session state keyed by session id.
type Store interface {
	// Get loads the state and refreshes the sliding TTL on the way out.
	Get(ctx context.Context, id string) (*State, error)
	// Save writes the state and resets the TTL.
	Save(ctx context.Context, id string, state *State) error
	// Invalidate removes the state. A missing session is not an error.
	Invalidate(ctx context.Context, id string) error
	// TTL returns the configured sliding window.
	TTL() time.Duration
}

const keyPrefix = "websession:"

// RedisStore is a Store backed by Redis with JSON-encoded values.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore with the given sliding TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{client: client, ttl: ttl}
}

// Get loads the state for id. Every successful read extends the key's TTL by
// the full window, which is what makes the session expiry sliding.
func (s *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	raw, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("websession: get %q: %w", id, err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("websession: decode %q: %w", id, err)
	}

	return &state, nil
}

// Save writes the state and resets the TTL. Transient write failures are
// retried with a short fibonacci backoff before surfacing to the caller.
func (s *RedisStore) Save(ctx context.Context, id string, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("websession: encode %q: %w", id, err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(50*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.client.Set(ctx, keyPrefix+id, raw, s.ttl).Err(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("websession: save %q: %w", id, err)
	}

	return nil
}

// Invalidate removes the state for id.
func (s *RedisStore) Invalidate(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("websession: invalidate %q: %w", id, err)
	}
	return nil
}

// TTL returns the configured sliding window.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}
