// Command cronjob triggers the booking server's maintenance jobs over HTTP.
// Booking state lives in the server process, so jobs always run there; this
// binary only decides when.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biliran-rental-backend/internal/config"
	"biliran-rental-backend/internal/domain"
	"biliran-rental-backend/internal/jobs"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/security"

	"github.com/robfig/cron/v3"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'accrue-late-fees', 'all-nightly')")
	serverURL := flag.String("server", "", "Base URL of the booking server (defaults to the configured address)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Biliran Cronjob Runner...", "log_level", cfg.Log.Level)

	base := *serverURL
	if base == "" {
		base = defaultServerURL(cfg)
	}
	tokens := security.NewTokenManager(cfg.JWT.Secret, 5*time.Minute)
	trigger := newTrigger(base, func() (string, error) {
		return tokens.GenerateAccessToken("cronjob", domain.UserRoleAdmin)
	})

	// Check if running a single job
	if *runOnce != "" {
		if !knownJob(*runOnce) {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			for _, name := range jobs.JobNames() {
				fmt.Printf("  - %s\n", name)
			}
			os.Exit(1)
		}
		logger.Info("Running job once", "job", *runOnce, "server", base)
		if err := trigger.Run(*runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithSeconds(),
	)
	schedule := map[string]string{
		jobs.JobAccrueLateFees:       cfg.Scheduler.AccrueLateFees,
		jobs.JobSendOverdueReminders: cfg.Scheduler.SendOverdueReminders,
		jobs.JobSendPickupReminders:  cfg.Scheduler.SendPickupReminders,
	}
	for name, spec := range schedule {
		if _, err := c.AddFunc(spec, func() {
			if err := trigger.Run(name); err != nil {
				logger.Error("Job trigger failed", "job", name, "error", err)
			}
		}); err != nil {
			log.Fatalf("Failed to register %s: %v", name, err)
		}
	}

	// Start scheduler
	c.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "server", base)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	<-c.Stop().Done()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

func defaultServerURL(cfg *config.Config) string {
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
}

func knownJob(name string) bool {
	for _, n := range jobs.JobNames() {
		if n == name {
			return true
		}
	}
	return false
}
