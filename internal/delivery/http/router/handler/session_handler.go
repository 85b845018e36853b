package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/delivery/http/response"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler holds dependencies for session-related handlers.
type SessionHandler struct {
	uc     usecase.SessionUsecase
	logger *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(uc usecase.SessionUsecase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{uc: uc, logger: logger}
}

type loginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	StoreName string `json:"storeName" validate:"required"`
}

// Login establishes a session from an email and store name. There is no
// password: the identity is taken at face value.
func (h *SessionHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	identity, err := h.uc.Login(c.Request().Context(), input.Email, input.StoreName)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toIdentityPayload(identity), "Login successful")
}

// Logout tears down the current session. Safe to call when logged out.
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// Session reports the caller's identity. Prefers the presented token;
// falls back to the locally persisted one so a restarted client can
// resume without logging in again.
func (h *SessionHandler) Session(c echo.Context) error {
	token := c.Request().Header.Get(deliverycontext.HeaderXSessionToken)

	var identity *usecase.Identity
	var err error
	if token != "" {
		identity, err = h.uc.Resolve(c.Request().Context(), token)
		if err != nil {
			return errors.WithStack(err)
		}
	} else {
		identity, err = h.uc.Restore(c.Request().Context())
		if err != nil {
			return errors.WithStack(err)
		}
	}

	if identity == nil {
		return response.Success(c, http.StatusOK, nil, "Not logged in")
	}

	return response.Success(c, http.StatusOK, toIdentityPayload(identity), "Session active")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
