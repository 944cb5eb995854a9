package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/retailops/backend/internal/application/catalog"
	identityapp "github.com/retailops/backend/internal/application/identity"
	partnerapp "github.com/retailops/backend/internal/application/partner"
	appreport "github.com/retailops/backend/internal/application/report"
	tradeapp "github.com/retailops/backend/internal/application/trade"
	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/infrastructure/cache"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/infrastructure/persistence"
	"github.com/retailops/backend/internal/infrastructure/printing"
	"github.com/retailops/backend/internal/infrastructure/scheduler"
	"github.com/retailops/backend/internal/infrastructure/storage"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
	"github.com/retailops/backend/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Warn("Failed to start profiler, continuing without it", zap.Error(err))
	} else {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Warn("Profiler stop failed", zap.Error(err))
			}
		}()
	}

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if tracerProvider.IsEnabled() {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	salesReader := persistence.NewGormSalesReader(db.DB)

	var reportOpts []appreport.Option
	if cfg.Report.CacheEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		var reportCache appreport.ReportCache
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, using in-memory report cache", zap.Error(err))
			reportCache = cache.NewMemoryReportCache()
		} else {
			defer redisClient.Close()
			reportCache = cache.NewRedisReportCache(redisClient)
		}
		reportOpts = append(reportOpts, appreport.WithCache(reportCache, cfg.Report.CacheTTL))
	}

	var imageStorage catalogapp.ImageStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		imageStorage = s3Storage
	} else {
		log.Warn("No storage bucket configured, product images held in memory")
		imageStorage = storage.NewLocalImageStorage()
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	productService := catalogapp.NewProductService(productRepo, imageStorage, log)
	orderService := tradeapp.NewOrderService(orderRepo, customerRepo, productRepo, log)
	reportService := appreport.NewService(salesReader, log, reportOpts...)

	renderer := printing.NewChromedpRenderer(&cfg.Printing, log)
	defer renderer.Close()

	sinks := map[appreport.Format]appreport.ExportSink{
		appreport.FormatJSON:     appreport.NewJSONSink(),
		appreport.FormatDocument: appreport.NewDocumentSink(renderer),
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewTaskExecutor(productRepo, reportService, cfg.Scheduler.LowStockThreshold, log)
		sched = scheduler.NewScheduler(cfg.Scheduler, executor, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.SpanErrorMarker())

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/ready",
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	})

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(jwtMiddleware).
		Register(handler.NewSystemHandler(db, version)).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewCustomerHandler(customerService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewReportHandler(reportService, sinks)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler shutdown failed", zap.Error(err))
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
