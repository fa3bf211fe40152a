package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/noah-isme/companies-api/internal/config"
	"github.com/noah-isme/companies-api/internal/database"
	"github.com/noah-isme/companies-api/internal/logging"
	"github.com/noah-isme/companies-api/internal/repository"
	"github.com/noah-isme/companies-api/internal/service"
)

func main() {
	file := flag.String("file", "", "path to the seed document, - reads stdin")
	timeout := flag.Duration("timeout", time.Minute, "import timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLogger, _ := logging.New(logging.Options{})
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, logCloser := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Service: cfg.AppName + "-seed",
		Env:     cfg.AppEnv,
	})
	defer logCloser.Close()

	document, err := readDocument(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("failed to read seed document")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	audit := service.NewAuditService(repository.NewAuditLogRepository(db), nil, "", logger)
	seeder := service.NewSeedService(repository.NewSeedRepository(db), audit, true, "", logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	summary, err := seeder.ImportTrusted(ctx, document)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed import failed")
	}

	logger.Info().
		Int64("buildings", summary.Buildings).
		Int64("activities", summary.Activities).
		Int64("organizations", summary.Organizations).
		Int64("phone_numbers", summary.PhoneNumbers).
		Int64("users", summary.Users).
		Msg("seed complete")
}

func readDocument(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
