// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/shopsphere/internal/config"
	"github.com/your-org/shopsphere/internal/infrastructure/database/postgres"
	"github.com/your-org/shopsphere/internal/infrastructure/database/redis"
	httpserver "github.com/your-org/shopsphere/internal/interfaces/http"
	"github.com/your-org/shopsphere/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.WithField("environment", cfg.App.Environment).Info("Starting " + cfg.App.Name)

	database, err := postgres.NewConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		log.WithError(err).Fatal("PostgreSQL health check failed")
	}
	log.Info("Connected to PostgreSQL")

	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()
	log.Info("Connected to Redis")

	migration := postgres.NewMigration(database.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Fatal("Index creation failed")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.WithError(err).Warn("Seeding initial data failed")
		}
	}

	server := httpserver.NewServer(cfg, database.GetDB(), redisClient.GetClient(), log)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	log.Info("Server exited")
}
