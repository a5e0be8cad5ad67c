package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"peopleapi/internal/config"
	"peopleapi/internal/database"
	"peopleapi/internal/http/server"
	"peopleapi/internal/logger"
	appotel "peopleapi/internal/otel"
	"peopleapi/internal/repository/postgres"
	"peopleapi/internal/service"
)

// @title People API
// @version 1.0
// @description Read-only access to the people table.
// @BasePath /
func main() {
	// Configuration is read once; .env is auto-loaded into the environment if present.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	lg.Info().Object("database", cfg.Database).Msg("connecting to database")
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.CheckSchema(ctx, db, lg); err != nil {
		lg.Fatal().Err(err).Msg("database schema check failed")
	}

	personRepo := postgres.NewPersonPostgres(db)
	personSvc := service.NewPersonService(personRepo)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := server.New(server.Deps{
		DB:       db,
		People:   personSvc,
		Logger:   lg,
		Registry: reg,

		// Shutdown signals cancel in-flight queries instead of waiting them out.
		BaseContext:    ctx,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
	})
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build server")
	}

	addr := ":" + cfg.Port
	go func() {
		lg.Info().Str("addr", addr).Msg("starting HTTP server")
		if err := app.Listen(addr); err != nil {
			lg.Error().Err(err).Msg("server stopped with error")
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("tracing shutdown failed")
	}
	lg.Info().Msg("server stopped")
}
