package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
	"github.com/domino14/wordformations/service"
)

var srv *service.Server

// HandleRequest answers one tile query. A word list that failed to load is
// returned as an invocation error rather than an empty word list.
func HandleRequest(ctx context.Context, req service.QueryRequest) (service.QueryResponse, error) {
	logger := log.With().Str("tiles", req.Tiles).Int("min-length", req.MinLength).Logger()
	resp := srv.Answer(ctx, req)
	if resp.Error != "" {
		logger.Error().Str("error", resp.Error).Msg("query-failed")
		return resp, errors.New(resp.Error)
	}
	logger.Info().Int("count", resp.Count).Msg("query-answered")
	return resp, nil
}

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

	// Start the load during cold start; the first invocation waits for it.
	d, err := dictionary.Get(cfg, cfg.GetString(config.ConfigDefaultLexicon))
	if err != nil {
		log.Fatal().Err(err).Msg("could not get dictionary")
	}
	srv = service.NewServer(cfg, d)

	lambda.Start(HandleRequest)
}
