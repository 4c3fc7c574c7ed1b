package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "campus-reserve-backend/internal/api/http"
	"campus-reserve-backend/internal/config"
	"campus-reserve-backend/internal/logger"
	"campus-reserve-backend/internal/notifier"
	"campus-reserve-backend/internal/payment"
	"campus-reserve-backend/internal/repository/postgres"
	"campus-reserve-backend/internal/security"
	"campus-reserve-backend/internal/service"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Campus Reserve Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	verifier := security.NewTokenVerifier(cfg.JWT.Secret)

	// Initialize Payment Rails
	gateway := payment.NewHTTPGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.GatewayTimeout())
	walletSettler := payment.NewWalletSettler(store.WalletRepository)
	cardSettler := payment.NewCardSettler(gateway, cfg.Gateway.Currency)

	// Initialize Notifier
	var notif notifier.Notifier
	if cfg.AMQP.URL != "" {
		notif, err = notifier.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker, events disabled", "error", err)
			notif = notifier.Noop{}
		}
	} else {
		logger.Info("No AMQP broker configured, events disabled")
		notif = notifier.Noop{}
	}
	defer notif.Close()

	// Initialize Services
	registrationSvc := service.NewRegistrationService(
		store.ResourceRepository,
		store.ReservationRepository,
		walletSettler,
		cardSettler,
		notif,
		cfg.SettlementTimeout(),
		int32(cfg.Settlement.SweepBatchSize),
	)
	approvalSvc := service.NewApprovalService(
		store.ApprovalRepository,
		store.ReservationRepository,
		store.ResourceRepository,
		registrationSvc,
		notif,
	)
	walletSvc := service.NewWalletService(store.WalletRepository)
	resourceSvc := service.NewResourceService(store.ResourceRepository)

	// Initialize Rate Limiter
	var limiter *httpapi.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = httpapi.NewRateLimiter(rdb, cfg.Redis.SubmitPerMinute, time.Minute)
		logger.Info("Submit rate limiter enabled", "per_minute", cfg.Redis.SubmitPerMinute)
	} else {
		logger.Info("No Redis configured, submit rate limiter disabled")
	}

	// Initialize HTTP layer
	router := httpapi.NewRouter(&httpapi.Handlers{
		Auth:        httpapi.NewAuthMiddleware(verifier),
		Reservation: httpapi.NewReservationHandler(registrationSvc),
		Payment:     httpapi.NewPaymentHandler(registrationSvc),
		Approval:    httpapi.NewApprovalHandler(approvalSvc),
		Wallet:      httpapi.NewWalletHandler(walletSvc),
		Resource:    httpapi.NewResourceHandler(resourceSvc),
		RateLimiter: limiter,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
