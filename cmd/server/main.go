package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billing/console/internal/application/forms"
	"github.com/billing/console/internal/domain/form"
	"github.com/billing/console/internal/infrastructure/cache"
	"github.com/billing/console/internal/infrastructure/config"
	"github.com/billing/console/internal/infrastructure/logger"
	"github.com/billing/console/internal/infrastructure/persistence"
	"github.com/billing/console/internal/infrastructure/refstore"
	"github.com/billing/console/internal/interfaces/http/handler"
	"github.com/billing/console/internal/interfaces/http/middleware"
	"github.com/billing/console/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting billing console",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if err := refstore.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}
	if cfg.App.Env != "production" {
		if err := refstore.Seed(db.DB); err != nil {
			log.Fatal("Failed to seed reference data", zap.Error(err))
		}
	}

	// Reference catalogs, optionally wrapped with the configured cache
	catalogs := refstore.Catalogs(db.DB)
	if cfg.Cache.RedisEnabled {
		factory := cache.NewCatalogCacheFactory(cfg.Redis, cache.WithLogger(log))
		catalogCache, err := factory.CreateCache()
		if err != nil {
			log.Fatal("Failed to create catalog cache", zap.Error(err))
		}
		catalogs = cache.WrapCatalogs(catalogs, catalogCache, cfg.Cache.TTL, log)
		log.Info("Catalog caching enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	registry, err := form.BuiltinRegistry()
	if err != nil {
		log.Fatal("Failed to build form registry", zap.Error(err))
	}

	sessionService := forms.NewService(registry, forms.CatalogMap(catalogs), log,
		forms.WithLimits(forms.Limits{
			MaxOpenPerUser: cfg.Session.MaxOpenPerUser,
			IdleTimeout:    cfg.Session.IdleTimeout,
		}),
	)
	sessionService.RegisterSubmitter("sales_order", persistence.NewSalesOrderSubmitter(db.DB))
	sessionService.RegisterSubmitter("purchase_order", persistence.NewPurchaseOrderSubmitter(db.DB))
	sessionService.RegisterSubmitter("production_recipe", persistence.NewRecipeSubmitter(db.DB))
	sessionService.RegisterLookup("production_recipe", persistence.NewRecipeEntryLookup(db.DB))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.Actor()),
	)
	r.Register(handler.NewFormSessionHandler(sessionService, registry))
	r.Register(handler.NewSystemHandler(db))
	r.Setup()

	// Health stays outside the actor-guarded API group
	engine.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "ok"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	sweeper := time.NewTicker(time.Minute)
	defer sweeper.Stop()
	go func() {
		for now := range sweeper.C {
			if closed := sessionService.CloseIdle(now); closed > 0 {
				log.Info("Idle session sweep", zap.Int("closed", closed))
			}
		}
	}()

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight catalog fetches finish before the process exits
	sessionService.Wait()

	log.Info("Server exited gracefully")
}
