package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vrnomarket/internal/authtoken"
	"vrnomarket/internal/config"
	"vrnomarket/internal/db"
	"vrnomarket/internal/external"
	"vrnomarket/internal/gateway"
	"vrnomarket/internal/otel"
	"vrnomarket/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cleanup, err := otel.Init(ctx, version.Name, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown otel")
		}
	}()

	database, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	pool, err := db.OpenPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open pgx pool")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	if err := db.Seed(ctx, database, cfg.SeedFile); err != nil {
		log.Fatal().Err(err).Msg("seed database")
	}

	var bus *nats.Conn
	if cfg.NATSURL != "" {
		bus, err = nats.Connect(cfg.NATSURL,
			nats.Name(version.Name),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("connect nats")
		}
		defer bus.Drain() //nolint:errcheck
	}

	tokens, err := authtoken.NewStore(database, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("init token store")
	}

	sweeper := authtoken.NewSweeper(database, cfg.SweepInterval, log.Logger)
	go sweeper.Run(ctx)

	api, err := gateway.New(
		&gateway.Store{ORM: database, DB: pool, Bus: bus},
		external.NewClient(cfg.ExternalAPIURL, cfg.VRNOAPIKey, cfg.ExternalAPITimeout),
		tokens,
		gateway.Config{
			APIKey:         cfg.VRNOAPIKey,
			TokenTTL:       cfg.TokenTTL,
			RateLimit:      cfg.RateLimit,
			AllowedOrigins: cfg.AllowedOrigins,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("init gateway")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           otel.Handler(api.Routes(), version.Name),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting vrno-market-gateway")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}
