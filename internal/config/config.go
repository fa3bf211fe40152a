package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	NATSSubject         string
	JWTSecret           string
	JWTExpiry           time.Duration
	APIKey              string
	GeocoderBaseURL     string
	GeocoderUserAgent   string
	GeocoderLanguage    string
	GeocoderTimeout     time.Duration
	GeocoderCacheTTL    time.Duration
	ActivityMaxDepth    int
	LogLevel            string
	LogFile             string
	SeedEnabled         bool
	SeedToken           string
	TokenRequestsPerMin int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("COMPANIES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Companies API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("nats.subject", "companies.audit")
	v.SetDefault("jwt.expire_minutes", 30)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "companies_app")
	v.SetDefault("geocoder.language", "en")
	v.SetDefault("geocoder.timeout", "5s")
	v.SetDefault("geocoder.cache_ttl", "24h")
	v.SetDefault("activity.max_depth", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("rate_limit.token_per_minute", 10)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"database.url", "redis.url", "nats.url", "jwt.secret", "api.key", "log.file", "seed.token"} {
		_ = v.BindEnv(key)
	}

	timeout, err := parseDuration(v.GetString("geocoder.timeout"), 5*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid geocoder timeout: %w", err)
	}

	cacheTTL, err := parseDuration(v.GetString("geocoder.cache_ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid geocoder cache ttl: %w", err)
	}

	expireMinutes := v.GetInt("jwt.expire_minutes")
	if expireMinutes <= 0 {
		expireMinutes = 30
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		NATSSubject:         v.GetString("nats.subject"),
		JWTSecret:           v.GetString("jwt.secret"),
		JWTExpiry:           time.Duration(expireMinutes) * time.Minute,
		APIKey:              v.GetString("api.key"),
		GeocoderBaseURL:     v.GetString("geocoder.base_url"),
		GeocoderUserAgent:   v.GetString("geocoder.user_agent"),
		GeocoderLanguage:    v.GetString("geocoder.language"),
		GeocoderTimeout:     timeout,
		GeocoderCacheTTL:    cacheTTL,
		ActivityMaxDepth:    v.GetInt("activity.max_depth"),
		LogLevel:            v.GetString("log.level"),
		LogFile:             v.GetString("log.file"),
		SeedEnabled:         v.GetBool("seed.enabled"),
		SeedToken:           v.GetString("seed.token"),
		TokenRequestsPerMin: v.GetInt("rate_limit.token_per_minute"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ActivityMaxDepth < 0 {
		return Config{}, fmt.Errorf("activity max depth must not be negative")
	}

	if cfg.TokenRequestsPerMin <= 0 {
		cfg.TokenRequestsPerMin = 10
	}

	if cfg.SeedEnabled && cfg.SeedToken == "" {
		return Config{}, fmt.Errorf("seed token must be provided when seeding is enabled")
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
