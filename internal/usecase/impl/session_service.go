package impl

import (
	"context"
	"log/slog"
	"time"

	"milkrun/config"
	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/infra/localstore"
	"milkrun/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	sessionRepo repository.SessionRepository
	local       *localstore.Store
	adminEmail  string
	logger      *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	local *localstore.Store,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		sessionRepo: sessionRepo,
		local:       local,
		adminEmail:  cfg.Admin.Email,
		logger:      logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// isAdmin is a case-sensitive exact match against the configured address.
func (srv *sessionService) isAdmin(email string) bool {
	return srv.adminEmail != "" && email == srv.adminEmail
}

// Login creates a session with a fresh opaque token and mirrors the token
// into the device-local store. No password, no verification: the email and
// store name are taken at face value.
func (srv *sessionService) Login(ctx context.Context, email, storeName string) (*usecase.Identity, error) {
	now := time.Now()
	session := &entity.Session{
		ID:           uuid.NewString(),
		Email:        email,
		StoreName:    storeName,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		srv.log(ctx).Error("Failed to create session", slog.Any("error", err), slog.String("email", email))

		return nil, domainerrors.NewPersistenceError(err, "failed to create session")
	}

	if err := srv.local.SetSessionToken(session.ID); err != nil {
		srv.log(ctx).Warn("Failed to persist session token locally", slog.Any("error", err))
	}

	srv.log(ctx).Info("Session established",
		slog.String("email", email),
		slog.String("store_name", storeName),
		slog.Bool("is_admin", srv.isAdmin(email)))

	return &usecase.Identity{Session: session, IsAdmin: srv.isAdmin(email)}, nil
}

// Logout deletes the backing session when a local token exists, then clears
// the local token and the cached order history. Safe to call logged out.
func (srv *sessionService) Logout(ctx context.Context) error {
	token, err := srv.local.SessionToken()
	if err != nil {
		srv.log(ctx).Warn("Failed to read local session token", slog.Any("error", err))
	}

	if token != "" {
		if err := srv.sessionRepo.Delete(ctx, token); err != nil {
			// The local cleanup below still runs: the worst case is an
			// orphaned session row, never a stuck login.
			srv.log(ctx).Warn("Failed to delete backing session", slog.Any("error", err))
		}
	}

	if err := srv.local.ClearSessionToken(); err != nil {
		return domainerrors.ErrInternalError.WithDetails("failed to clear session token")
	}
	if err := srv.local.ClearCachedOrders(); err != nil {
		srv.log(ctx).Warn("Failed to clear cached orders", slog.Any("error", err))
	}

	srv.log(ctx).Info("Session cleared")

	return nil
}

// Restore re-establishes the identity from the locally persisted token.
// A missing token, a lookup miss or a backend failure all leave the caller
// logged out with no error; both a miss and a backend failure clear the
// local token so the next start begins clean.
func (srv *sessionService) Restore(ctx context.Context) (*usecase.Identity, error) {
	token, err := srv.local.SessionToken()
	if err != nil || token == "" {
		return nil, nil
	}

	session, err := srv.sessionRepo.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			srv.log(ctx).Info("Clearing stale session token")
		} else {
			srv.log(ctx).Warn("Failed to restore session", slog.Any("error", err))
		}

		if clearErr := srv.local.ClearSessionToken(); clearErr != nil {
			srv.log(ctx).Warn("Failed to clear stale session token", slog.Any("error", clearErr))
		}

		return nil, nil
	}

	if err := srv.sessionRepo.TouchLastActive(ctx, session.ID); err != nil {
		srv.log(ctx).Warn("Failed to touch session", slog.Any("error", err))
	}

	return &usecase.Identity{Session: session, IsAdmin: srv.isAdmin(session.Email)}, nil
}

// Resolve looks up a token presented by a request.
func (srv *sessionService) Resolve(ctx context.Context, token string) (*usecase.Identity, error) {
	if token == "" {
		return nil, domainerrors.ErrNotLoggedIn
	}

	session, err := srv.sessionRepo.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, domainerrors.ErrSessionNotFound
		}

		return nil, domainerrors.NewPersistenceError(err, "failed to resolve session")
	}

	if err := srv.sessionRepo.TouchLastActive(ctx, session.ID); err != nil {
		srv.log(ctx).Warn("Failed to touch session", slog.Any("error", err))
	}

	return &usecase.Identity{Session: session, IsAdmin: srv.isAdmin(session.Email)}, nil
}
