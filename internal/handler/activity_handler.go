package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/service"
	"github.com/noah-isme/companies-api/internal/utils"
)

// ActivityHandler exposes the activity taxonomy.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires activity routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/:name/subactivities", h.subactivities)
}

func (h *ActivityHandler) subactivities(c *fiber.Ctx) error {
	depth, err := parseOptionalDepth(c)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	name, err := decodePathParam(c.Params("name"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	tree, err := h.service.Subactivities(requestContext(c), name, depth)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	if len(tree) == 0 {
		return sendNoData(c)
	}
	return utils.OK(c, tree, "activities retrieved", fiber.Map{"count": len(tree)})
}
