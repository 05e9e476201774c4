package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JawadErfani01/computer-management-system/internal/app"
	"github.com/JawadErfani01/computer-management-system/internal/catalog/categories"
	"github.com/JawadErfani01/computer-management-system/internal/catalog/products"
	"github.com/JawadErfani01/computer-management-system/internal/customers"
	"github.com/JawadErfani01/computer-management-system/internal/dashboard"
	"github.com/JawadErfani01/computer-management-system/internal/observability"
	"github.com/JawadErfani01/computer-management-system/internal/platform/cache"
	"github.com/JawadErfani01/computer-management-system/internal/platform/db"
	"github.com/JawadErfani01/computer-management-system/internal/sales"
	"github.com/JawadErfani01/computer-management-system/internal/uploads"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The API stays usable without redis; the dashboard just loses
		// its cache.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	imageStore, err := uploads.NewStore(cfg.UploadDir, logger)
	if err != nil {
		logger.Error("init upload store", slog.Any("error", err))
		os.Exit(1)
	}

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)

	categoryService := categories.NewService(categories.NewRepository(pool))
	productService := products.NewService(products.NewRepository(pool), categoryService, imageStore)
	customerService := customers.NewService(customers.NewRepository(pool))
	saleService := sales.NewService(sales.NewRepository(pool), dashboardCache)
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), dashboardCache)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CategoryHandler:  categories.NewHandler(logger, categoryService),
		ProductHandler:   products.NewHandler(logger, productService, imageStore),
		CustomerHandler:  customers.NewHandler(logger, customerService),
		SalesHandler:     sales.NewHandler(logger, saleService),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
