package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/projects_api/internal/config"
	"github.com/Skotchmaster/projects_api/internal/db"
	"github.com/Skotchmaster/projects_api/internal/es"
	"github.com/Skotchmaster/projects_api/internal/guard"
	"github.com/Skotchmaster/projects_api/internal/hash"
	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/metrics"
	authmw "github.com/Skotchmaster/projects_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/projects_api/internal/middleware/logging"
	"github.com/Skotchmaster/projects_api/internal/mykafka"
	"github.com/Skotchmaster/projects_api/internal/repo"
	"github.com/Skotchmaster/projects_api/internal/service"
	"github.com/Skotchmaster/projects_api/internal/service/search"
	"github.com/Skotchmaster/projects_api/internal/tokens"
	httpserver "github.com/Skotchmaster/projects_api/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "projects_api")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server_stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server_stopped")
}

// run serves until ctx is done. Everything it opens is closed before it returns.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := db.Open(openCtx, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(openCtx, conn)
	}
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer db.Close(conn)

	ts, err := tokens.NewService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}

	r := repo.New(conn)
	authSvc, err := service.NewAuthService(r, hash.New(cfg.BcryptCost), ts)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	projSvc := &service.ProjectService{Repo: r}

	if cfg.KafkaEnabled() {
		producer, err := mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		defer producer.Close()
		projSvc.Events = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	if cfg.SearchEnabled() {
		client, err := es.NewClient(ctx, cfg, logger)
		if err != nil {
			// search is optional; the rest of the API keeps working
			logger.Error("search_disabled", "error", err)
		} else {
			projSvc.Search = search.New(client, cfg.ESIndex)
		}
	}

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		DB:             conn,
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, Metrics: m},
		ProjectHandler: &httpserver.ProjectHTTP{Svc: projSvc},
		AuthMW:         authmw.New(guard.New(ts, r), m),
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
