package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"mimir/internal/config"
	"mimir/internal/engine"
	"mimir/internal/feed"
	"mimir/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load configuration")
	}
	setupLogging(cfg.LogLevel)

	// Wire the engine, the synthetic feed and the API surface.
	eng := engine.New(cfg.LedgerCapacity)
	srv := server.New(cfg.ListenAddr, eng)

	t, ctx := tomb.WithContext(ctx)
	if cfg.FeedEnabled {
		gen := feed.New(eng, cfg.FeedInterval)
		t.Go(func() error {
			return gen.Run(t)
		})
	}
	t.Go(func() error {
		return srv.Run(ctx)
	})

	if err := t.Wait(); err != nil {
		log.Fatal().Err(err).Msg("exited with error")
	}
}

func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
