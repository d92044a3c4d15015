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
	"go.uber.org/zap"

	"github.com/giftwrap-jax/service-booking/internal/address"
	"github.com/giftwrap-jax/service-booking/internal/application"
	"github.com/giftwrap-jax/service-booking/internal/auth"
	"github.com/giftwrap-jax/service-booking/internal/config"
	"github.com/giftwrap-jax/service-booking/internal/database"
	"github.com/giftwrap-jax/service-booking/internal/events"
	"github.com/giftwrap-jax/service-booking/internal/handler"
	"github.com/giftwrap-jax/service-booking/internal/health"
	"github.com/giftwrap-jax/service-booking/internal/logger"
	"github.com/giftwrap-jax/service-booking/internal/middleware"
	"github.com/giftwrap-jax/service-booking/internal/payment"
	"github.com/giftwrap-jax/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.WaitlistModel{},
			&repository.SiteSettingModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize admin session manager
	sessions, err := auth.NewSessionManager(
		cfg.Session.HashKey,
		cfg.Session.BlockKey,
		cfg.AppEnv != "development",
	)
	if err != nil {
		log.Fatal("failed to create session manager", zap.Error(err))
	}

	// Initialize event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, log)
		defer func() { _ = kafkaPublisher.Close() }()
		publisher = kafkaPublisher
	} else {
		log.Warn("no Kafka brokers configured, lifecycle events disabled")
	}

	// Initialize payment gateway
	gateway := payment.NewStripeGateway(
		cfg.StripeConfig.SecretKey,
		cfg.StripeConfig.WebhookSecret,
		cfg.SiteURL,
	)

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	waitlistRepo := repository.NewGormWaitlistRepository(db)
	settingsRepo := repository.NewGormSettingsRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(bookingRepo, gateway, publisher, log)
	waitlistService := application.NewWaitlistService(waitlistRepo, log)
	settingsService := application.NewSettingsService(settingsRepo, log)

	// Initialize address validator
	addressValidator := address.NewUSPSValidator(cfg.USPS.UserID, cfg.USPS.AllowedZips, log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	webhookHandler := handler.NewWebhookHandler(bookingService, gateway, log)
	waitlistHandler := handler.NewWaitlistHandler(waitlistService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	addressHandler := handler.NewAddressHandler(addressValidator)
	adminHandler := handler.NewAdminHandler(
		bookingService,
		waitlistService,
		settingsService,
		sessions,
		cfg.Session.AdminPasswordHash,
	)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.SiteURL))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	webhookHandler.RegisterRoutes(&router.RouterGroup)
	waitlistHandler.RegisterRoutes(&router.RouterGroup)
	settingsHandler.RegisterRoutes(&router.RouterGroup)
	addressHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
