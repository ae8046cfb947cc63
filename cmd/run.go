package cmd

import (
	"context"
	"fmt"
	"time"

	"trenchwars/api"
	"trenchwars/config"
	"trenchwars/database"
	"trenchwars/events"
	"trenchwars/repository"
	"trenchwars/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting trenchwars backend...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	userService := service.NewUserService(uowFactory)
	tokenService := service.NewTokenService(uowFactory)
	warService := service.NewWarService(uowFactory, cfg)
	betService := service.NewBetService(uowFactory, cfg)
	settlementService := service.NewSettlementService(uowFactory, cfg)
	log.Info("Services initialized")

	// Initialize HTTP server
	server := api.NewServer(cfg, warService, betService, settlementService, tokenService, userService)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	log.WithFields(log.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
	}).Info("Backend is running")

	select {
	case err := <-errChan:
		db.Close()
		return err
	case <-ctx.Done():
	}

	// Drain in-flight requests, then release the pool
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	db.Close()
	log.Info("Shutdown completed")
	return nil
}
