package cmd

import (
	"context"
	"fmt"
	"time"

	"bookie/config"
	"bookie/database"
	"bookie/metrics"
	"bookie/repository"
	"bookie/service"

	log "github.com/sirupsen/logrus"
)

// Services bundles the command services handed to the transport boundary.
// The core is invoked in-process; no wire protocol is defined here.
type Services struct {
	Deposits service.DepositService
	Bets     service.BetService
}

// Run holds the database connection and metrics endpoint open until ctx is
// cancelled. The embedding platform calls Wire for the command services.
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	metricsServer := metrics.StartServer(cfg.MetricsAddr)
	log.WithField("addr", cfg.MetricsAddr).Info("Metrics server started")

	log.WithField("environment", cfg.Environment).Info("Money-movement core ready")

	<-ctx.Done()

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Metrics server shutdown failed")
	}

	db.Close()
	log.Info("Shutdown completed")

	return nil
}

// Wire constructs the unit of work factory, the idempotency coordinator and
// the command services over an open database connection. The transport
// boundary calls this once at startup; tests call it against a test database.
func Wire(db *database.DB) *Services {
	uowFactory := repository.NewUnitOfWorkFactory(db)
	coordinator := service.NewCoordinator(uowFactory, repository.NewIdempotencyRepository(db))

	return &Services{
		Deposits: service.NewDepositService(coordinator),
		Bets:     service.NewBetService(coordinator, uowFactory),
	}
}
