package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JawadErfani01/computer-management-system/internal/catalog/categories"
	"github.com/JawadErfani01/computer-management-system/internal/catalog/products"
	"github.com/JawadErfani01/computer-management-system/internal/customers"
	"github.com/JawadErfani01/computer-management-system/internal/dashboard"
	"github.com/JawadErfani01/computer-management-system/internal/observability"
	"github.com/JawadErfani01/computer-management-system/internal/sales"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CategoryHandler  *categories.Handler
	ProductHandler   *products.Handler
	CustomerHandler  *customers.Handler
	SalesHandler     *sales.Handler
	DashboardHandler *dashboard.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router exposing the REST API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/products/category", params.CategoryHandler.MountRoutes)
	r.Route("/api/products", params.ProductHandler.MountRoutes)
	r.Route("/api/customers", params.CustomerHandler.MountRoutes)
	r.Route("/api/sales", params.SalesHandler.MountRoutes)
	r.Route("/api/dashboard", params.DashboardHandler.MountRoutes)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.Config != nil && params.Config.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(params.Config.UploadDir)))
		r.Handle("/uploads/*", fileServer)
	}

	return r
}
