package rediscart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickedu/checkout/internal/domain/model"
)

// commands is the subset of the redis client used by the store.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Store keeps one cart document per user in Redis. Items are stored as a JSON
// list, preserving insertion order.
type Store struct {
	client commands
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Redis-backed cart store and verifies connectivity.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Store{client: client, ttl: ttl, logger: logger}, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func cartKey(userID string) string {
	return "cart:user:" + userID
}

// Get returns the stored cart items, or an empty slice when no cart exists.
func (s *Store) Get(ctx context.Context, userID string) ([]model.CartItem, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

// Save replaces the cart document, refreshing its TTL.
func (s *Store) Save(ctx context.Context, userID string, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(userID), data, s.ttl).Err()
}

// Clear removes the cart document entirely.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
