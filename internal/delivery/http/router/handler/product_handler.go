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

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: logger}
}

type createProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"gte=0"`
	ImageURL     string  `json:"imageUrl"`
	Barcode      string  `json:"barcode"`
	QuantityType string  `json:"quantityType" validate:"omitempty,oneof=unit kg"`
	Stock        *int    `json:"stock" validate:"omitempty,gte=0"`
	IsVisible    *bool   `json:"isVisible"`
}

type updateProductRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	ImageURL     *string  `json:"imageUrl"`
	Barcode      *string  `json:"barcode"`
	QuantityType *string  `json:"quantityType" validate:"omitempty,oneof=unit kg"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0"`
	IsVisible    *bool    `json:"isVisible"`
}

// List returns the visible catalog. An administrator asking for
// ?all=true gets hidden products as well.
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	identity := middleware.IdentityFrom(c)
	wantsAll := c.QueryParam("all") == "true" && identity != nil && identity.IsAdmin
	if !wantsAll {
		visible := make([]*entity.Product, 0, len(products))
		for _, product := range products {
			if product.IsVisible {
				visible = append(visible, product)
			}
		}
		products = visible
	}

	return response.Success(c, http.StatusOK, toProductPayloads(products), "")
}

// Get returns a single product. Hidden products only resolve for
// administrators.
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	identity := middleware.IdentityFrom(c)
	if !product.IsVisible && (identity == nil || !identity.IsAdmin) {
		return domainerrors.ErrProductNotFound
	}

	return response.Success(c, http.StatusOK, toProductPayload(product), "")
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(c echo.Context) error {
	var input createProductRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.AddProduct(c.Request().Context(), usecase.ProductInput{
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		ImageURL:     input.ImageURL,
		Barcode:      input.Barcode,
		QuantityType: entity.QuantityType(input.QuantityType),
		Stock:        input.Stock,
		IsVisible:    input.IsVisible,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProductPayload(product), "Product created")
}

// Update merges the supplied fields onto an existing product.
func (h *ProductHandler) Update(c echo.Context) error {
	var input updateProductRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	patch := usecase.ProductPatch{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Barcode:     input.Barcode,
		Stock:       input.Stock,
		IsVisible:   input.IsVisible,
	}
	if input.QuantityType != nil {
		quantityType := entity.QuantityType(*input.QuantityType)
		patch.QuantityType = &quantityType
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductPayload(product), "Product updated")
}

type setVisibilityRequest struct {
	IsVisible *bool `json:"isVisible" validate:"required"`
}

// SetVisibility is a thin alias over Update for the single toggle the
// dashboard flips most often.
func (h *ProductHandler) SetVisibility(c echo.Context) error {
	var input setVisibilityRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid visibility input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), c.Param("id"), usecase.ProductPatch{
		IsVisible: input.IsVisible,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductPayload(product), "Product visibility updated")
}

// Delete removes a product. Deleting an absent id succeeds.
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted")
}
