package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"campus-reserve-backend/internal/config"
	"campus-reserve-backend/internal/jobs"
	"campus-reserve-backend/internal/logger"
	"campus-reserve-backend/internal/notifier"
	"campus-reserve-backend/internal/payment"
	"campus-reserve-backend/internal/repository/postgres"
	"campus-reserve-backend/internal/scheduler"
	"campus-reserve-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-stale-settlements')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Campus Reserve Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Payment Rails. The sweep only releases holds; the card
	// settler is wired so terminal-race compensation can run.
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
		notif = notifier.Noop{}
	}
	defer notif.Close()

	// Initialize Services
	registrationService := service.NewRegistrationService(
		store.ResourceRepository,
		store.ReservationRepository,
		walletSettler,
		cardSettler,
		notif,
		cfg.SettlementTimeout(),
		int32(cfg.Settlement.SweepBatchSize),
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(registrationService, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-stale-settlements":
		jobRunner.ExpireStaleSettlements()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-stale-settlements\n")
		os.Exit(1)
	}
}
