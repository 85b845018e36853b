package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
)

// Identity is the resolved acting identity of a request.
type Identity struct {
	Session *entity.Session
	IsAdmin bool
}

// SessionUsecase establishes, restores and destroys the unauthenticated
// email + store-name identity.
type SessionUsecase interface {
	// Login creates a session record with a fresh opaque token, mirrors the
	// token into the device-local store and reports admin privilege.
	Login(ctx context.Context, email, storeName string) (*Identity, error)

	// Logout deletes the backing session record when a local token exists,
	// then clears the local token and the cached order list.
	Logout(ctx context.Context) error

	// Restore re-establishes the identity from the locally persisted token.
	// A missing token, a lookup miss or a backend error all leave the caller
	// logged out (nil identity, nil error) and clear the stale token.
	Restore(ctx context.Context) (*Identity, error)

	// Resolve looks up a session token presented by a request and reports the
	// identity, or ErrSessionNotFound.
	Resolve(ctx context.Context, token string) (*Identity, error)
}
