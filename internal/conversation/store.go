// Package conversation keeps a bounded, expiring chat history per session in Redis.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docuchat/internal/config"
	"docuchat/internal/model"
)

// Store is the per-session conversation history.
type Store interface {
	// History returns the stored turns oldest first. A missing conversation is an empty slice.
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	// Append adds turns to the end, trims to the configured length and refreshes the TTL.
	Append(ctx context.Context, sessionID string, msgs ...model.ChatMessage) error
	// Clear drops the session's history.
	Clear(ctx context.Context, sessionID string) error
}

// NewRedisClient connects to Redis and verifies it answers a ping.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

type redisStore struct {
	rdb       *redis.Client
	ttl       time.Duration
	maxLength int
	log       *zap.Logger
}

// NewRedisStore returns a Store backed by one Redis list per session.
func NewRedisStore(rdb *redis.Client, ttl time.Duration, maxLength int, log *zap.Logger) Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &redisStore{rdb: rdb, ttl: ttl, maxLength: maxLength, log: log}
}

// Key returns the Redis key holding a session's conversation.
func Key(sessionID string) string {
	return "conversation:" + sessionID
}

func (s *redisStore) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	raw, err := s.rdb.LRange(ctx, Key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	out := make([]model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			s.log.Warn("skipping undecodable conversation entry",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *redisStore) Append(ctx context.Context, sessionID string, msgs ...model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode conversation entry: %w", err)
		}
		values = append(values, string(b))
	}

	key := Key(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if s.maxLength > 0 {
		pipe.LTrim(ctx, key, int64(-s.maxLength), -1)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append conversation: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, Key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}
