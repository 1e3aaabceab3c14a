package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer-api/internal/api"
	"customer-api/internal/config"
	"customer-api/internal/domain/customer"
	"customer-api/internal/event"
	"customer-api/internal/infrastructure/database/postgres"
	"customer-api/internal/infrastructure/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	shutdownTimeout    = 20 * time.Second
	serverExitTimeout  = 5 * time.Second
	startupDBTimeout   = 30 * time.Second
	configSearchFolder = "."
)

// @title Customer API
// @version 1.0
// @description CRUD service for customer records with partial updates and unique email enforcement.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	if cfg.Database.Migrate {
		applyMigrations(dbPool, logger)
	}

	rabbitConn, publisher := initializeEvents(cfg.Events, logger)
	defer closeRabbitMQConnection(rabbitConn, logger)

	customerService := initializeServices(dbPool, publisher, logger)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	router := api.SetupRouter(bgCtx, customerService, dbPool, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, stopBackground, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(configSearchFolder)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "port", cfg.Server.Port, "log_level", cfg.Logger.Level)

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	ctx, cancel := context.WithTimeout(context.Background(), startupDBTimeout)
	defer cancel()

	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func applyMigrations(dbPool postgres.DBPool, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), startupDBTimeout)
	defer cancel()

	if err := postgres.Migrate(ctx, dbPool, logger); err != nil {
		logger.Error("Failed to apply database migrations", "error", err)
		dbPool.Close()
		os.Exit(1)
	}
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// initializeEvents returns a nil publisher when no broker URL is configured.
func initializeEvents(cfg config.EventsConfig, logger *slog.Logger) (*amqp.Connection, event.Publisher) {
	if cfg.AMQPURL == "" {
		logger.Info("Event publishing disabled, no AMQP URL configured")
		return nil, nil
	}

	conn, err := event.Connect(cfg.AMQPURL, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.Exchange, logger)
	if err != nil {
		logger.Error("Failed to initialize event publisher", "error", err)
		_ = conn.Close()
		os.Exit(1)
	}
	return conn, publisher
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	switch {
	case rabbitConn == nil:
		return
	case rabbitConn.IsClosed():
		logger.Info("RabbitMQ connection already closed, skipping close.")
	default:
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		}
	}
}

func initializeServices(dbPool postgres.DBPool, publisher event.Publisher, logger *slog.Logger) customer.CustomerService {
	logger.Info("Initializing application components...")
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	return customer.NewCustomerService(customerRepo, publisher, logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, stopBackground context.CancelFunc, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			stopBackground()
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(serverExitTimeout):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}
