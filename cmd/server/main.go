package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biliran-rental-backend/internal/api/grpc"
	httpapi "biliran-rental-backend/internal/api/http"
	"biliran-rental-backend/internal/assessment"
	"biliran-rental-backend/internal/catalog"
	"biliran-rental-backend/internal/config"
	"biliran-rental-backend/internal/jobs"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/repository"
	"biliran-rental-backend/internal/repository/memory"
	"biliran-rental-backend/internal/repository/postgres"
	"biliran-rental-backend/internal/scheduler"
	"biliran-rental-backend/internal/security"
	"biliran-rental-backend/internal/service"
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
	logger.Info("Starting Biliran Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "timezone", cfg.Booking.Timezone)

	ctx := context.Background()

	// Booking state lives in memory
	store := memory.NewStore()
	cat := catalog.New(cfg.Booking.Promos)
	if err := seed(ctx, store, cat, cfg.Seed); err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}

	// Notification inbox: Postgres when configured, memory otherwise
	var noteRepo repository.NotificationRepository = store.NotificationRepository
	if cfg.Database.Enabled {
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			logger.Error("Failed to open database", "error", err)
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		pgStore := postgres.NewStore(db)
		if err := pgStore.Migrate(ctx); err != nil {
			logger.Error("Failed to migrate notifications table", "error", err)
			log.Fatalf("Failed to migrate database: %v", err)
		}
		noteRepo = pgStore.NotificationRepository
		logger.Info("Notification inbox stored in PostgreSQL", "host", cfg.Database.Host, "database", cfg.Database.Database)
	}

	// Initialize Email Service
	emailSvc := newEmailService(cfg)

	// Initialize Services
	coord := service.NewCoordinator()
	notificationSvc := service.NewNotificationService(noteRepo, store.UserRepository, emailSvc)
	availabilitySvc := service.NewAvailabilityService(store.BookingRepository, store.VehicleRepository)
	vehicleSvc := service.NewVehicleService(coord, store.VehicleRepository, cat)
	bookingSvc := service.NewBookingService(
		coord,
		store.BookingRepository,
		store.VehicleRepository,
		availabilitySvc,
		cat,
		assessment.NewEngine(nil),
		notificationSvc,
		service.BookingOptions{Location: cfg.Location()},
	)
	messageSvc := service.NewMessageService(coord, store.BookingRepository, notificationSvc)

	// Jobs
	jobRunner := jobs.NewJobRunner(store.BookingRepository, bookingSvc, notificationSvc, cfg)
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		cronScheduler, err = scheduler.NewScheduler(jobRunner)
		if err != nil {
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	router := httpapi.NewRouter(&httpapi.Services{
		Vehicles:      vehicleSvc,
		Availability:  availabilitySvc,
		Bookings:      bookingSvc,
		Messages:      messageSvc,
		Notifications: notificationSvc,
		Catalog:       cat,
		Jobs:          jobRunner,
	}, tokenManager, httpapi.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// gRPC health service
	var healthServer *grpc.HealthServer
	if cfg.GRPC.Port != 0 {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		healthServer = grpc.NewHealthServer()
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	if healthServer != nil {
		healthServer.SetServing(false)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if healthServer != nil {
		healthServer.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")
	return db, nil
}

func newEmailService(cfg *config.Config) service.EmailService {
	switch cfg.Email.Provider {
	case "smtp":
		logger.Info("SMTP configuration", "host", cfg.Email.SMTP.Host, "port", cfg.Email.SMTP.Port)
		return service.NewEmailService(
			cfg.Email.SMTP.Host,
			fmt.Sprintf("%d", cfg.Email.SMTP.Port),
			cfg.Email.SMTP.User,
			cfg.Email.SMTP.Password,
			cfg.Email.SMTP.From,
		)
	case "sendgrid":
		logger.Info("SendGrid configuration", "from", cfg.Email.SendGrid.FromEmail)
		return service.NewSendGridEmailService(
			cfg.Email.SendGrid.APIKey,
			cfg.Email.SendGrid.FromEmail,
			cfg.Email.SendGrid.FromName,
			cfg.Email.SendGrid.Host,
		)
	default:
		logger.Info("Email delivery disabled; notifications are kept in the inbox only")
		return nil
	}
}
