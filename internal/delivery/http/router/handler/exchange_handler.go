package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"milkrun/internal/delivery/http/response"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ExchangeHandler holds dependencies for import/export handlers.
type ExchangeHandler struct {
	uc     usecase.ExchangeUsecase
	logger *slog.Logger
}

// NewExchangeHandler is the constructor for ExchangeHandler, injected by Fx.
func NewExchangeHandler(uc usecase.ExchangeUsecase, logger *slog.Logger) *ExchangeHandler {
	return &ExchangeHandler{uc: uc, logger: logger}
}

// ExportProducts serves the catalog as a downloadable csv, xlsx or pdf
// document, selected by the format query parameter.
func (h *ExchangeHandler) ExportProducts(c echo.Context) error {
	result, err := h.uc.ExportProducts(c.Request().Context(), exportFormat(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return serveDownload(c, result)
}

// ExportOrders serves all orders as a downloadable document.
func (h *ExchangeHandler) ExportOrders(c echo.Context) error {
	result, err := h.uc.ExportOrders(c.Request().Context(), exportFormat(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return serveDownload(c, result)
}

// ImportProducts accepts a CSV upload, either as a multipart "file" part
// or as the raw request body, and merges it into the catalog.
func (h *ExchangeHandler) ImportProducts(c echo.Context) error {
	reader := c.Request().Body

	if file, err := c.FormFile("file"); err == nil {
		opened, openErr := file.Open()
		if openErr != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Could not read uploaded file")
		}
		defer opened.Close()
		reader = opened
	}

	merged, err := h.uc.ImportProducts(c.Request().Context(), reader)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"merged": merged}, "Import complete")
}

func exportFormat(c echo.Context) usecase.ExportFormat {
	format := c.QueryParam("format")
	if format == "" {
		return usecase.FormatCSV
	}

	return usecase.ExportFormat(format)
}

func serveDownload(c echo.Context, result *usecase.ExportResult) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, result.Filename))

	return c.Blob(http.StatusOK, result.ContentType, result.Content)
}
