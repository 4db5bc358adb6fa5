package cmd

import (
	"context"
	"fmt"

	"github.com/openlms/courseflow/pkg/sessionstore"
)

// NewSessionStore selects the editor session backend: Redis when a URL is
// configured, in-memory otherwise. In-memory sessions do not survive a
// restart and do not work behind a load balancer.
func NewSessionStore(ctx context.Context, redisURL string) sessionstore.Store {
	if redisURL == "" {
		return sessionstore.NewMemoryStore()
	}

	store, err := sessionstore.NewRedisStore(ctx, redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to connect to Redis session store: %w", err))
	}

	return store
}
