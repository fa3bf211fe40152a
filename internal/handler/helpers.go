package handler

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/middleware"
	"github.com/noah-isme/companies-api/internal/service"
	"github.com/noah-isme/companies-api/internal/utils"
)

const noDataMessage = "no data by this query"

func parseQueryFloat(c *fiber.Ctx, key string) (float64, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, apperr.InvalidArgument("%s is required", key)
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, apperr.InvalidArgument("%s must be a number", key)
	}
	return parsed, nil
}

// parseOptionalDepth returns nil when max_depth is absent.
func parseOptionalDepth(c *fiber.Ctx) (*int, error) {
	value := strings.TrimSpace(c.Query("max_depth"))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperr.InvalidArgument("max_depth must be an integer")
	}
	return &parsed, nil
}

func parseID(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, apperr.InvalidArgument("id must be a positive integer")
	}
	return parsed, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// requestContext returns the request's user context carrying the correlation id.
func requestContext(c *fiber.Ctx) context.Context {
	return middleware.ContextWithCorrelation(c.UserContext(), middleware.GetCorrelationID(c))
}

func sendNoData(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusNotFound, noDataMessage)
}

// sendServiceError maps service and taxonomy errors onto HTTP responses.
func sendServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	log := requestLogger(logger, c)

	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		return utils.SendError(c, fiber.StatusBadRequest, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, apperr.Message(err))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInactiveUser):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Msg("request deadline exceeded")
		return utils.Fail(c, fiber.StatusGatewayTimeout, "request timed out", correlationDetails(c))
	case errors.Is(err, context.Canceled):
		return utils.SendError(c, fiber.StatusRequestTimeout, "request cancelled")
	case errors.Is(err, apperr.ErrDependencyFailure):
		log.Error().Err(err).Msg("dependency failure")
		return utils.Fail(c, fiber.StatusBadGateway, apperr.Message(err), correlationDetails(c))
	default:
		log.Error().Err(err).Msg("unhandled error")
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error", correlationDetails(c))
	}
}

func correlationDetails(c *fiber.Ctx) fiber.Map {
	if id := middleware.GetCorrelationID(c); id != "" {
		return fiber.Map{"correlation_id": id}
	}
	return nil
}

func decodePathParam(value string) (string, error) {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", apperr.InvalidArgument("malformed path parameter")
	}
	return decoded, nil
}

// ErrorHandler renders errors escaping route handlers, such as unknown routes, in the standard
// envelope.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		}
		return sendServiceError(c, logger, err)
	}
}
