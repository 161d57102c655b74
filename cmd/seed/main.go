package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Skotchmaster/projects_api/internal/config"
	"github.com/Skotchmaster/projects_api/internal/db"
	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/repo"
	"github.com/Skotchmaster/projects_api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "projects_seed")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close(conn)

	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	added, err := seed.Projects(logging.IntoContext(ctx, logger), repo.New(conn))
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("%d projects added", added)
}
