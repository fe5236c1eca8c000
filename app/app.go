package app

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agro-market-api/internal/config"
	"agro-market-api/internal/controller"
	"agro-market-api/internal/repo"
	"agro-market-api/internal/service"
	"agro-market-api/pkg/http_server"
	"agro-market-api/pkg/jwtauth"
	"agro-market-api/pkg/logger"
	"agro-market-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	"go.uber.org/zap"
)

func runMigrations(postgresDB *postgres.Postgres, cfg *config.Config, l *zap.Logger) error {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: cfg.PostgresDB})
	if err != nil {
		return err
	}

	migrations, err := migrate.NewWithDatabaseInstance(cfg.MigrationsDir, cfg.PostgresDB, driver)
	if err != nil {
		return err
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			l.Info("no change made by migration scripts")
			return nil
		}

		return err
	}

	return nil
}

func Run() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	l.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		l.Fatal("Error occurred while connecting to db", zap.Error(err))
	}
	defer postgresDB.Close()

	l.Info("Running migrations...")
	if err := runMigrations(postgresDB, cfg, l); err != nil {
		l.Fatal("Migration error", zap.Error(err))
	}

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories, service.Options{
		Log:     l,
		Retries: cfg.SettleRetries,
		Backoff: time.Duration(cfg.SettleBackoff) * time.Millisecond,
	})
	tokens := jwtauth.New(cfg.JWTSecret)
	handler := echo.New()

	l.Info("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, tokens)

	l.Info("Starting server...", zap.String("address", cfg.ServerAddress))
	httpServer := http_server.New(handler, cfg.ServerAddress)

	l.Info("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		l.Error("Notify error", zap.Error(err))
	}

	l.Info("Shutting down...")
	if err := httpServer.Shutdown(); err != nil {
		l.Error("Shutdown error", zap.Error(err))
	} else {
		l.Info("Successful shutdown")
	}
}
