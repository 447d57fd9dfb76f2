package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"plexbrowse/internal/api"
	"plexbrowse/internal/cache"
	"plexbrowse/internal/config"
	"plexbrowse/internal/library"
	"plexbrowse/internal/plex"
	"plexbrowse/internal/server"
	"plexbrowse/web"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	envPath := flag.String("env", ".env", "path to dotenv file")
	flag.Parse()

	// Variables already set in the environment take precedence.
	envErr := godotenv.Load(*envPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := setupLogger(cfg.Logging)

	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn().Err(envErr).Str("path", *envPath).Msg("failed to load env file")
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration: PLEX_URL and PLEX_TOKEN must be set")
	}

	logger.Info().
		Str("version", api.Version).
		Str("plex_url", cfg.Plex.URL).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting plexbrowse")

	client := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, cfg.Plex.Timeout, logger)
	results := cache.New("library")
	svc := library.NewService(client, results, cfg.Cache.TTL, logger)

	srv := server.New(cfg, logger, svc, web.FS())

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info().Msg("received shutdown signal")

		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	<-shutdownDone

	logger.Info().Msg("server stopped")
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}
