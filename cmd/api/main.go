package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/showroom-backend/api/routes"
	"github.com/angelmondragon/showroom-backend/internal/auth"
	"github.com/angelmondragon/showroom-backend/internal/banners"
	"github.com/angelmondragon/showroom-backend/internal/cart"
	"github.com/angelmondragon/showroom-backend/internal/media"
	products "github.com/angelmondragon/showroom-backend/internal/products"
	"github.com/angelmondragon/showroom-backend/internal/users"
	"github.com/angelmondragon/showroom-backend/internal/wishlist"
	"github.com/angelmondragon/showroom-backend/pkg/auth/session"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/db"
	"github.com/angelmondragon/showroom-backend/pkg/instance"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/metrics"
	"github.com/angelmondragon/showroom-backend/pkg/migrate"
	"github.com/angelmondragon/showroom-backend/pkg/pubsub"
	"github.com/angelmondragon/showroom-backend/pkg/redis"
	"github.com/angelmondragon/showroom-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "gcs", err)
	defer gcsClient.Close()

	imageStore, err := media.NewGCSImageStore(gcsClient)
	requireResource(ctx, logg, "image store", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	imageMetrics := metrics.NewImageMetrics(registry)

	var cleanupQueue media.CleanupQueue
	if cfg.FeatureFlags.CleanupPublish {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, false, logg)
		requireResource(ctx, logg, "pubsub", err)
		defer pubsubClient.Close()

		queue, err := media.NewPubSubCleanupQueue(pubsubClient.CleanupPublisher())
		requireResource(ctx, logg, "image cleanup queue", err)
		cleanupQueue = queue
	}

	reconciler, err := media.NewImageReconciler(media.ReconcilerParams{
		Store:             imageStore,
		Queue:             cleanupQueue,
		Metrics:           imageMetrics,
		Logger:            logg,
		Folder:            cfg.Media.ProductFolder,
		MaxUploadBytes:    cfg.Media.MaxUploadBytes(),
		UploadConcurrency: cfg.Media.UploadConcurrency,
	})
	requireResource(ctx, logg, "image reconciler", err)

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		AdminEmail:     cfg.Catalog.AdminEmail,
		Logger:         logg,
	})
	requireResource(ctx, logg, "auth service", err)

	userService, err := users.NewService(users.ServiceParams{
		Repo:         userRepo,
		Images:       reconciler,
		Password:     cfg.Password,
		AvatarFolder: cfg.Media.AvatarFolder,
		Logger:       logg,
	})
	requireResource(ctx, logg, "user service", err)

	productService, err := products.NewService(products.ServiceParams{
		Repo:          productRepo,
		DB:            dbClient,
		Images:        reconciler,
		Cache:         products.NewCatalogCache(redisClient, cfg.Catalog.CacheTTL, logg),
		Catalog:       cfg.Catalog,
		ProductFolder: cfg.Media.ProductFolder,
		Logger:        logg,
	})
	requireResource(ctx, logg, "product service", err)

	bannerService, err := banners.NewService(banners.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "banner service", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cart.NewRepository(dbClient.DB()),
		ProductRepo: productRepo,
		Logger:      logg,
	})
	requireResource(ctx, logg, "cart service", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(dbClient.DB()),
		ProductRepo:  productRepo,
		Logger:       logg,
	})
	requireResource(ctx, logg, "wishlist service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Sessions:       sessionManager,
			Auth:           authService,
			Users:          userService,
			Products:       productService,
			Banners:        bannerService,
			Cart:           cartService,
			Wishlist:       wishlistService,
			Metrics:        metrics.NewHTTPMetrics(registry),
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
