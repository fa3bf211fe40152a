package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/companies-api/internal/config"
	"github.com/noah-isme/companies-api/internal/database"
	"github.com/noah-isme/companies-api/internal/geocode"
	"github.com/noah-isme/companies-api/internal/handler"
	"github.com/noah-isme/companies-api/internal/logging"
	"github.com/noah-isme/companies-api/internal/middleware"
	"github.com/noah-isme/companies-api/internal/repository"
	"github.com/noah-isme/companies-api/internal/router"
	"github.com/noah-isme/companies-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger, _ := logging.New(logging.Options{})
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, logCloser := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Service: cfg.AppName,
		Env:     cfg.AppEnv,
	})
	defer logCloser.Close()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	probes := map[string]handler.HealthProbe{"database": databaseProbe(db)}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var publisher service.AuditPublisher
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Drain()
		publisher = natsConn
		probes["nats"] = func(context.Context) error {
			if natsConn.Status() != nats.CONNECTED {
				return errors.New("nats connection is " + natsConn.Status().String())
			}
			return nil
		}
	}

	nominatim, err := geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:   cfg.GeocoderBaseURL,
		UserAgent: cfg.GeocoderUserAgent,
		Language:  cfg.GeocoderLanguage,
		Timeout:   cfg.GeocoderTimeout,
	}, &http.Client{Timeout: cfg.GeocoderTimeout}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create geocoder")
	}
	geocoder := geocode.NewCachedGeocoder(nominatim, redisClient, cfg.GeocoderCacheTTL, cfg.GeocoderLanguage, logger)

	uow := repository.NewUnitOfWork(db)
	resolver := service.NewActivityTreeResolver(logger)

	auditService := service.NewAuditService(repository.NewAuditLogRepository(db), publisher, cfg.NATSSubject, logger)
	organizationService := service.NewOrganizationService(uow, resolver, cfg.ActivityMaxDepth, logger)
	activityService := service.NewActivityService(uow, resolver, cfg.ActivityMaxDepth, logger)
	geoSearchService := service.NewGeoSearchService(uow, geocoder, logger)
	authService := service.NewAuthService(uow, service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry), auditService, logger)
	seedService := service.NewSeedService(repository.NewSeedRepository(db), auditService, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: handler.ErrorHandler(logger),
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		OrganizationHandler: handler.NewOrganizationHandler(organizationService, geoSearchService, logger),
		ActivityHandler:     handler.NewActivityHandler(activityService, logger),
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
		AuditHandler:        handler.NewAuditHandler(auditService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		ReadinessProbes:     probes,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func databaseProbe(db *gorm.DB) handler.HealthProbe {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
