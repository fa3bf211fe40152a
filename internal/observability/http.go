package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMetricsPath is where the scrape endpoint is mounted unless configured otherwise.
const DefaultMetricsPath = "/metrics"

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}

// Mount registers the scrape endpoint on router.
func Mount(router fiber.Router, path string) {
	if path == "" {
		path = DefaultMetricsPath
	}
	router.Get(path, MetricsHandler())
}
