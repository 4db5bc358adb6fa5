package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openlms/courseflow/pkg/designer"
)

const (
	sessionKeyPrefix = "courseflow:session:"

	// Abandoned sessions expire; nothing in them is persisted work, the
	// template itself lives in the template store once saved.
	sessionTTL = 24 * time.Hour
)

// RedisStore keeps sessions in Redis so any API node can serve a session's
// next request.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*designer.Editor, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}

	var editor designer.Editor
	if err := json.Unmarshal(data, &editor); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}

	return &editor, nil
}

func (s *RedisStore) Put(ctx context.Context, editor *designer.Editor) error {
	data, err := json.Marshal(editor)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", editor.Session.ID, err)
	}

	err = s.client.Set(ctx, sessionKeyPrefix+editor.Session.ID, data, sessionTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store session %s: %w", editor.Session.ID, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	err := s.client.Del(ctx, sessionKeyPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	return nil
}

func (s *RedisStore) Close(_ context.Context) error {
	return s.client.Close()
}
