package app

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JawadErfani01/computer-management-system/internal/catalog/categories"
	"github.com/JawadErfani01/computer-management-system/internal/observability"
)

type noopCategoryRepo struct{}

func (noopCategoryRepo) List(context.Context) ([]categories.Category, error) {
	return []categories.Category{}, nil
}
func (noopCategoryRepo) Get(context.Context, uuid.UUID) (*categories.Category, error) {
	return nil, categories.ErrNotFound
}
func (noopCategoryRepo) GetByName(context.Context, string) (*categories.Category, error) {
	return nil, categories.ErrNotFound
}
func (noopCategoryRepo) Create(context.Context, string) (*categories.Category, error) {
	return nil, categories.ErrNotFound
}
func (noopCategoryRepo) Update(context.Context, uuid.UUID, string) (*categories.Category, error) {
	return nil, categories.ErrNotFound
}
func (noopCategoryRepo) Delete(context.Context, uuid.UUID) error { return nil }

func TestHealthzAndMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second}

	metrics := observability.NewMetrics()
	categoryHandler := categories.NewHandler(logger, categories.NewService(noopCategoryRepo{}))

	router := NewRouter(RouterParams{
		Logger:          logger,
		Config:          cfg,
		CategoryHandler: categoryHandler,
		Metrics:         metrics,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/products/category", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cms_http_requests_total")
}
