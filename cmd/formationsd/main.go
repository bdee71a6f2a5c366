package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
	"github.com/domino14/wordformations/service"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	cfg.AdjustRelativePaths(exPath)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).
		Uint64("free-memory", memory.FreeMemory()).Msg("starting formationsd")

	// The load runs in the background; requests that arrive before it is
	// done wait for it.
	d, err := dictionary.Get(cfg, cfg.GetString(config.ConfigDefaultLexicon))
	if err != nil {
		log.Fatal().Err(err).Msg("could not get dictionary")
	}

	closed := make(chan struct{})
	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL),
		nats.Name("formationsd"),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}
	defer nc.Close()

	srv := service.NewServer(cfg, d)
	sub, err := srv.Serve(nc, cfg.GetString(config.ConfigQuerySubject))
	if err != nil {
		log.Fatal().Err(err).Msg("could not subscribe")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loadErr := make(chan error, 1)
	go func() { loadErr <- d.Wait(ctx) }()

	select {
	case err := <-loadErr:
		if err != nil && ctx.Err() == nil {
			// A word list that failed to load will not fix itself.
			log.Error().Err(err).Msg("word list failed to load; exiting")
			sub.Unsubscribe()
			os.Exit(1)
		}
		<-ctx.Done()
	case <-ctx.Done():
	}

	log.Info().Msg("got quit signal...")
	if err := nc.Drain(); err != nil {
		log.Err(err).Msg("drain-failed")
	}
	select {
	case <-closed:
	case <-time.After(GracefulShutdownTimeout):
		log.Warn().Msg("timed out draining connection")
	}
	log.Info().Msg("server gracefully shutting down")
}
