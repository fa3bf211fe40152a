package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/service"
	"github.com/noah-isme/companies-api/internal/utils"
)

// SeedTokenHeader authorises seed uploads.
const SeedTokenHeader = "X-Seed-Token"

// SeedHandler exposes tooling endpoints for seeding data.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/seed", h.seed)
}

func (h *SeedHandler) seed(c *fiber.Ctx) error {
	summary, err := h.service.Import(requestContext(c), c.Get(SeedTokenHeader), c.Body())
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Int64("organizations", summary.Organizations).Msg("directory seeded via api")
	return utils.SendSuccess(c, "directory seeded", summary)
}
