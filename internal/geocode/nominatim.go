package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/observability"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimConfig configures the Nominatim reverse geocoder.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
}

// NominatimClient calls the Nominatim /reverse endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	language  string
	http      *http.Client
	logger    zerolog.Logger
}

type nominatimResponse struct {
	Error   string            `json:"error"`
	Address map[string]string `json:"address"`
}

// cityKeys are probed in order; smaller settlements have no "city" entry.
var cityKeys = []string{"city", "town", "village", "municipality"}

// NewNominatimClient builds a client. A nil httpClient gets a client bounded by cfg.Timeout.
func NewNominatimClient(cfg NominatimConfig, httpClient *http.Client, logger zerolog.Logger) (*NominatimClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultNominatimURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid nominatim base url: %w", err)
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, fmt.Errorf("nominatim user agent is required")
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &NominatimClient{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		language:  language,
		http:      httpClient,
		logger:    logger.With().Str("component", "nominatim_geocoder").Logger(),
	}, nil
}

// ReverseGeocode implements Geocoder.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, bool, error) {
	start := time.Now()
	city, found, err := c.reverse(ctx, lat, lon)
	observability.GeocoderLatency().Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		observability.GeocoderRequests().WithLabelValues("error").Inc()
		c.logger.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("reverse geocode failed")
	case !found:
		observability.GeocoderRequests().WithLabelValues("miss").Inc()
	default:
		observability.GeocoderRequests().WithLabelValues("hit").Inc()
	}

	return city, found, err
}

func (c *NominatimClient) reverse(ctx context.Context, lat, lon float64) (string, bool, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("addressdetails", "1")
	q.Set("accept-language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", false, fmt.Errorf("nominatim returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, fmt.Errorf("decode nominatim response: %w", err)
	}

	// Nominatim answers 200 with an error field for points it cannot place (e.g. open sea).
	if payload.Error != "" {
		c.logger.Debug().Str("reason", payload.Error).Msg("no reverse geocode result")
		return "", false, nil
	}

	for _, key := range cityKeys {
		if city := strings.TrimSpace(payload.Address[key]); city != "" {
			return city, true, nil
		}
	}
	return "", false, nil
}
