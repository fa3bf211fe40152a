package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/repository"
	"github.com/noah-isme/companies-api/internal/service"
	"github.com/noah-isme/companies-api/internal/utils"
)

const maxAuditPageSize = 100

// AuditHandler lists recorded audit events.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register wires audit routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := strconv.Atoi(c.Query("page_size", "20"))
	if err != nil || pageSize <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize > maxAuditPageSize {
		pageSize = maxAuditPageSize
	}

	filter := repository.AuditLogFilter{
		Page:     page,
		PageSize: pageSize,
		Actor:    strings.TrimSpace(c.Query("actor")),
		Action:   strings.TrimSpace(c.Query("action")),
	}
	entries, total, err := h.service.Recent(requestContext(c), filter)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.OK(c, entries, "audit entries retrieved", fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}
