package handler

import (
	"log/slog"
	"net/http"

	"milkrun/internal/delivery/http/middleware"
	"milkrun/internal/delivery/http/response"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

type orderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type submitOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Submit places an order under the caller's identity.
func (h *OrderHandler) Submit(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return domainerrors.ErrNotLoggedIn
	}

	var input submitOrderRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	items := make([]usecase.OrderItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, usecase.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.uc.SubmitOrder(c.Request().Context(), identity.Session.StoreName, identity.Session.Email, items)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderPayload(order), "Order submitted")
}

// List returns the caller's own order history.
func (h *OrderHandler) List(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return domainerrors.ErrNotLoggedIn
	}

	orders, err := h.uc.ListOrdersByEmail(c.Request().Context(), identity.Session.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderPayloads(orders), "")
}

// AdminList returns every order across all stores for the dashboard.
func (h *OrderHandler) AdminList(c echo.Context) error {
	orders, err := h.uc.ListOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderPayloads(orders), "")
}

// SetStatus transitions an order through its lifecycle. Moving into
// Delivered also reconciles tracked stock.
func (h *OrderHandler) SetStatus(c echo.Context) error {
	var input setStatusRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.uc.SetOrderStatus(c.Request().Context(), c.Param("id"), entity.OrderStatus(input.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderPayload(order), "Order status updated")
}

// Notifications reports whether new Pending orders arrived since the
// administrator last viewed the dashboard.
func (h *OrderHandler) Notifications(c echo.Context) error {
	hasNew, err := h.uc.HasNewPendingOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"hasNewOrders": hasNew}, "")
}

// MarkViewed records the dashboard as seen, clearing the notification flag.
func (h *OrderHandler) MarkViewed(c echo.Context) error {
	if err := h.uc.MarkDashboardViewed(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Dashboard view recorded")
}
