package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/service"
	"github.com/noah-isme/companies-api/internal/utils"
)

// OrganizationHandler exposes organization lookups.
type OrganizationHandler struct {
	organizations service.OrganizationService
	geo           service.GeoSearchService
	logger        zerolog.Logger
}

// NewOrganizationHandler constructs an organization handler.
func NewOrganizationHandler(organizations service.OrganizationService, geo service.GeoSearchService, logger zerolog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		organizations: organizations,
		geo:           geo,
		logger:        logger.With().Str("component", "organization_handler").Logger(),
	}
}

// Register wires organization routes. advanced guards the sub-activity and coordinate searches.
func (h *OrganizationHandler) Register(router fiber.Router, advanced fiber.Handler) {
	if advanced == nil {
		advanced = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Get("/by-address", h.byAddress)
	router.Get("/by-activity", h.byActivity)
	router.Get("/by-name", h.byName)
	router.Get("/by-subactivities", advanced, h.bySubactivities)
	router.Get("/by-coordinates", advanced, h.byCoordinates)
	router.Get("/:id", h.byID)
}

func (h *OrganizationHandler) byAddress(c *fiber.Ctx) error {
	result, err := h.organizations.ByBuildingAddress(requestContext(c), c.Query("city"), c.Query("street"), c.Query("house"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	if len(result) == 0 {
		return sendNoData(c)
	}
	return utils.OK(c, result, "organizations retrieved", fiber.Map{"count": len(result)})
}

func (h *OrganizationHandler) byActivity(c *fiber.Ctx) error {
	result, err := h.organizations.ByActivity(requestContext(c), c.Query("activity"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	if len(result) == 0 {
		return sendNoData(c)
	}
	return utils.OK(c, result, "organizations retrieved", fiber.Map{"count": len(result)})
}

func (h *OrganizationHandler) byName(c *fiber.Ctx) error {
	result, err := h.organizations.ByName(requestContext(c), c.Query("name"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	if result == nil {
		return sendNoData(c)
	}
	return utils.SendSuccess(c, "organization retrieved", result)
}

func (h *OrganizationHandler) byID(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	result, err := h.organizations.ByID(requestContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	if result == nil {
		return sendNoData(c)
	}
	return utils.SendSuccess(c, "organization retrieved", result)
}

func (h *OrganizationHandler) bySubactivities(c *fiber.Ctx) error {
	depth, err := parseOptionalDepth(c)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	result, err := h.organizations.BySubactivities(requestContext(c), c.Query("activity"), depth)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	if len(result) == 0 {
		return sendNoData(c)
	}
	return utils.OK(c, result, "organizations retrieved", fiber.Map{"count": len(result)})
}

func (h *OrganizationHandler) byCoordinates(c *fiber.Ctx) error {
	latitude, err := parseQueryFloat(c, "latitude")
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	longitude, err := parseQueryFloat(c, "longitude")
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	radius, err := parseQueryFloat(c, "radius")
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	result, err := h.geo.BuildingsWithOrganizations(requestContext(c), latitude, longitude, radius)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	if len(result) == 0 {
		return sendNoData(c)
	}
	return utils.OK(c, result, "buildings retrieved", fiber.Map{
		"count":     len(result),
		"latitude":  latitude,
		"longitude": longitude,
		"radius":    radius,
	})
}
