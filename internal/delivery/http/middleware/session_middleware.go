package middleware

import (
	deliverycontext "milkrun/internal/delivery/context"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
)

// identityContextKey is the echo context key the resolved identity lives under.
const identityContextKey = "identity"

// SessionMiddleware resolves the opaque session token from the
// X-Session-Token header into an acting identity.
type SessionMiddleware struct {
	sessions usecase.SessionUsecase
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(sessions usecase.SessionUsecase) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Authenticate requires a valid session token on the request.
func (m *SessionMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get(deliverycontext.HeaderXSessionToken)

		identity, err := m.sessions.Resolve(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(identityContextKey, identity)

		return next(c)
	}
}

// RequireAdmin rejects requests whose identity is not the administrator.
// Must run after Authenticate.
func (m *SessionMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFrom(c)
		if identity == nil || !identity.IsAdmin {
			return domainerrors.ErrForbidden
		}

		return next(c)
	}
}

// IdentityFrom returns the identity resolved by Authenticate, or nil.
func IdentityFrom(c echo.Context) *usecase.Identity {
	identity, _ := c.Get(identityContextKey).(*usecase.Identity)

	return identity
}
