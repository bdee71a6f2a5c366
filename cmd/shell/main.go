package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/shell"
)

var (
	GitVersion string
)

//go:embed formations.txt
var banner string

func main() {
	// Determine the directory of the executable. A relative data path is
	// resolved against it if it does not exist relative to the working dir.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)
	fmt.Println(banner)
	fmt.Println(GitVersion)

	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
	log.Info().Interface("config", cfg.SanitizedSettings()).
		Uint64("total-memory", memory.TotalMemory()).Msg("starting")

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(done)
	}()

	// Anything that isn't a --setting is a command to run once.
	var cmdArgs []string
	for _, a := range args {
		if !strings.HasPrefix(a, "--") {
			cmdArgs = append(cmdArgs, a)
		}
	}
	line := strings.TrimSpace(strings.Join(cmdArgs, " "))

	sc := shell.NewShellController(cfg)
	if line == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, line)
		select {
		case sig <- syscall.SIGINT:
		default:
		}
	}

	<-done
	sc.Cleanup()
	log.Info().Msg("shutting down")
}
