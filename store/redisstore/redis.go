// Package redisstore provides a Redis-backed ConversationStore for
// self-hosted setups where the remote HTTP directory is not available.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/store"
)

const (
	keyPrefix = "conversation:"
	indexKey  = "conversations:index"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string        `json:"addr"`
	Password string        `json:"password,omitempty"`
	DB       int           `json:"db,omitempty"`
	TTL      time.Duration `json:"ttl,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr: "localhost:6379",
		TTL:  0, // conversations do not expire by default
	}
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *core.Logger
}

// New creates a Redis-backed ConversationStore.
func New(config Config, logger *core.Logger) store.ConversationStore {
	if logger == nil {
		logger = core.GetLogger()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	return &redisStore{
		client: client,
		ttl:    config.TTL,
		logger: logger.With(map[string]any{"component": "redisstore"}),
	}
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, ttl time.Duration, logger *core.Logger) store.ConversationStore {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &redisStore{client: client, ttl: ttl, logger: logger}
}

// List implements store.ConversationStore. The index is a sorted set scored
// by save time, so listing order is most recently saved first.
func (s *redisStore) List(ctx context.Context) ([]core.ConversationSummary, error) {
	ids, err := s.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list index: %w", err)
	}

	out := make([]core.ConversationSummary, 0, len(ids))
	for _, id := range ids {
		val, err := s.client.Get(ctx, keyPrefix+id).Result()
		if errors.Is(err, redis.Nil) {
			// Index entry outlived its value (e.g. TTL expiry); drop it.
			_ = s.client.ZRem(ctx, indexKey, id).Err()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redisstore: load %q for listing: %w", id, err)
		}
		var snap core.ConversationSnapshot
		if err := sonic.Unmarshal([]byte(val), &snap); err != nil {
			s.logger.Warn("skipping undecodable conversation", "id", id, "error", err)
			continue
		}
		out = append(out, core.ConversationSummary{ID: id, Title: snap.Title})
	}
	return out, nil
}

// Load implements store.ConversationStore.
func (s *redisStore) Load(ctx context.Context, id string) (*core.ConversationSnapshot, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redisstore: load %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: load %q: %w", id, err)
	}

	var snap core.ConversationSnapshot
	if err := sonic.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("redisstore: decode %q: %w", id, err)
	}
	return &snap, nil
}

// Save implements store.ConversationStore. The "new" sentinel allocates a
// fresh identifier; any other id overwrites.
func (s *redisStore) Save(ctx context.Context, snap *core.ConversationSnapshot) (string, error) {
	id := snap.ID
	if id == "" || id == core.NewConversationID {
		id = uuid.New().String()
	}

	stored := *snap
	stored.ID = id
	val, err := sonic.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("redisstore: encode %q: %w", id, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+id, string(val), s.ttl)
		pipe.ZAdd(ctx, indexKey, redis.Z{
			Score:  float64(time.Now().UnixNano()),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redisstore: save %q: %w", id, err)
	}
	return id, nil
}

// Delete implements store.ConversationStore. Deleting an unknown id is not
// an error.
func (s *redisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyPrefix+id)
		pipe.ZRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: delete %q: %w", id, err)
	}
	return nil
}
