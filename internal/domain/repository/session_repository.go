package repository

import (
	"context"
	"errors"

	"milkrun/internal/domain/entity"
)

// ErrSessionNotFound is a domain-specific error returned when a session is not found.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the standard operations for session persistence.
type SessionRepository interface {
	// FindByID retrieves a session by its opaque token.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Create persists a new session record.
	Create(ctx context.Context, session *entity.Session) error

	// TouchLastActive updates the last-active timestamp of a session.
	TouchLastActive(ctx context.Context, id string) error

	// Delete removes a session record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
