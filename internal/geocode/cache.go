package geocode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// cacheGeohashChars gives cells of roughly 38m x 19m.
const cacheGeohashChars = 8

// CachedGeocoder memoises positive lookups of another Geocoder in Redis, keyed by geohash cell.
// Redis failures are logged and fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next   Geocoder
	cache  *redis.Client
	ttl    time.Duration
	prefix string
	logger zerolog.Logger
}

// NewCachedGeocoder wraps next. A nil cache returns next unchanged.
func NewCachedGeocoder(next Geocoder, cache *redis.Client, ttl time.Duration, language string, logger zerolog.Logger) Geocoder {
	if cache == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if language == "" {
		language = "en"
	}
	return &CachedGeocoder{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		prefix: fmt.Sprintf("geocode:v1:%s:", language),
		logger: logger.With().Str("component", "geocode_cache").Logger(),
	}
}

// ReverseGeocode implements Geocoder.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, bool, error) {
	key := c.key(lat, lon)

	city, err := c.cache.Get(ctx, key).Result()
	switch {
	case err == nil && city != "":
		return city, true, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to read geocode cache")
	}

	city, found, err := c.next.ReverseGeocode(ctx, lat, lon)
	if err != nil || !found {
		return city, found, err
	}

	if err := c.cache.Set(ctx, key, city, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to store geocode cache")
	}
	return city, true, nil
}

func (c *CachedGeocoder) key(lat, lon float64) string {
	return c.prefix + geohash.EncodeWithPrecision(lat, lon, cacheGeohashChars)
}
