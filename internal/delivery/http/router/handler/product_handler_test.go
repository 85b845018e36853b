package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"milkrun/internal/domain/entity"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	usecase.CatalogUsecase

	products []*entity.Product
}

func (s *stubCatalog) ListProducts(context.Context) ([]*entity.Product, error) {
	return s.products, nil
}

func TestProductHandler_List_FiltersHiddenForRegularSessions(t *testing.T) {
	catalog := &stubCatalog{products: []*entity.Product{
		{ID: "p1", Name: "Whole Milk 1L", IsVisible: true},
		{ID: "p2", Name: "Discontinued Spread", IsVisible: false},
	}}
	handler := NewProductHandler(catalog, slog.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity", &usecase.Identity{Session: &entity.Session{Email: "shop@example.com"}})

	require.NoError(t, handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Whole Milk 1L")
	assert.NotContains(t, body, "Discontinued Spread")
}

func TestProductHandler_List_AdminSeesHiddenProducts(t *testing.T) {
	catalog := &stubCatalog{products: []*entity.Product{
		{ID: "p2", Name: "Discontinued Spread", IsVisible: false},
	}}
	handler := NewProductHandler(catalog, slog.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products?all=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity", &usecase.Identity{
		Session: &entity.Session{Email: "admin@example.com"},
		IsAdmin: true,
	})

	require.NoError(t, handler.List(c))
	assert.Contains(t, rec.Body.String(), "Discontinued Spread")
}
