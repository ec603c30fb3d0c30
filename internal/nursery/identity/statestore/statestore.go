// Package statestore persists which identity each client runtime is signed in
// as, so that sign-ins survive restarts and expire on their own.
package statestore

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
)

var (
	ErrNotFound = errors.New("statestore: not found")
	ErrExpired  = errors.New("statestore: state already expired")
	ErrNoClient = errors.New("statestore: client id is empty")
)

// Store keeps one IdentityState per client id.
type Store interface {
	// Save writes st, replacing any previous state for st.ClientID. States
	// that have already expired are rejected with ErrExpired.
	Save(ctx context.Context, st domain.IdentityState) error

	// Get returns ErrNotFound for unknown or expired clients.
	Get(ctx context.Context, clientID string) (domain.IdentityState, error)

	Delete(ctx context.Context, clientID string) error
	Ping(ctx context.Context) error
}
