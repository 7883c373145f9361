// @title        plant-sync API
// @version      1.0
// @description  Creates Growatt plants from a device serial number and keeps their equipment in sync with the OSS monitoring API.
// @BasePath     /
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "plant-sync/docs"
	gormstore "plant-sync/internal/adapters/gorm"
	natsad "plant-sync/internal/adapters/nats"
	"plant-sync/internal/adapters/oss"
	"plant-sync/internal/config"
	"plant-sync/internal/core/plants"
	api "plant-sync/internal/delivery/http"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().
		Str("svc", "plant-sync").Logger()

	cfg := config.MustLoad()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping default")
	}
	log.Info().Interface("cfg", cfg).Msg("boot")

	// graceful-shutdown
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := gormstore.New(cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	store := gormstore.NewStore(db)

	if cfg.CatalogFile != "" {
		items, err := config.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			log.Fatal().Err(err).Msg("catalog")
		}
		if err := store.SeedItems(ctx, items); err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
		log.Info().Int("items", len(items)).Msg("catalog seeded")
	}

	var (
		tokens oss.TokenStore
		opts   []plants.Option
	)
	if cfg.NATSURL != "" {
		nc, err := natsad.New(cfg.NATSURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("nats connect")
		}
		defer nc.Close()

		kv, err := nc.EnsureBucket(cfg.TokenBucket, cfg.OSSTokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("token bucket")
		}
		tokens = natsad.NewTokenStore(kv)

		if err := nc.EnsureStream(cfg.EventsSubject, cfg.EventsStream); err != nil {
			log.Fatal().Err(err).Msg("events stream")
		}
		opts = append(opts, plants.WithEvents(nc.Publisher(cfg.EventsSubject), cfg.PublishTimeout))
	} else {
		log.Warn().Msg("NATS_URL not set: events disabled, OSS token cached in process")
	}

	monitor := oss.New(oss.Config{
		Host:       cfg.OSSHost,
		Username:   cfg.OSSUsername,
		Password:   cfg.OSSPassword,
		OSSURL:     cfg.OSSURL,
		GrowattURL: cfg.GrowattURL,
		Timeout:    cfg.OSSTimeout,
		TokenTTL:   cfg.OSSTokenTTL,
	}, tokens, log)

	validator, err := plants.NewSerialValidator(cfg.SerialPattern)
	if err != nil {
		log.Fatal().Err(err).Msg("serial pattern")
	}

	mgr := plants.New(store, monitor, validator, log, opts...)

	handler := api.New(mgr, log)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Info().Str("listen", cfg.ListenAddr).Msg("HTTP up")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("bye")
}
