// Package sessionstore keeps editor sessions alive across stateless API
// requests. A session is owned by exactly one editing client; the store only
// provides survival, not sharing.
package sessionstore

import (
	"context"
	"errors"

	"github.com/openlms/courseflow/pkg/designer"
)

// ErrSessionNotFound indicates no session exists for the given id.
var ErrSessionNotFound = errors.New("editor session not found")

// Store persists editor sessions between requests.
type Store interface {
	Get(ctx context.Context, id string) (*designer.Editor, error)
	Put(ctx context.Context, editor *designer.Editor) error
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// IsSessionNotFound checks if an error indicates a missing session.
func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
