// Command seed inserts random customers into the configured database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"customer-api/internal/config"
	"customer-api/internal/domain/customer"
	"customer-api/internal/infrastructure/database/postgres"
	"customer-api/internal/infrastructure/logging"
	"customer-api/internal/seed"
)

func main() {
	count := flag.Int("count", 1, "number of random customers to insert")
	configDir := flag.String("config", ".", "directory holding config.yml and .env")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *count, logger); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, count int, logger *slog.Logger) error {
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, dbPool, logger); err != nil {
			return err
		}
	}

	svc := customer.NewCustomerService(postgres.NewCustomerRepository(dbPool, logger), nil, logger)
	created, err := seed.NewSeeder(svc, nil, logger).Seed(ctx, count)
	if err != nil {
		return err
	}

	logger.Info("Seeding complete", "requested", count, "created", created)
	return nil
}
