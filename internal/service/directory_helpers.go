package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/observability"
)

const tracerName = "github.com/noah-isme/companies-api/internal/service"

// lookup wraps one directory query with a span and the lookup metrics.
type lookup struct {
	operation string
	start     time.Time
	span      trace.Span
}

func startLookup(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, *lookup) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "directory."+operation)
	span.SetAttributes(attrs...)
	return ctx, &lookup{operation: operation, start: time.Now(), span: span}
}

// finish records the outcome of the query and ends its span.
func (l *lookup) finish(found bool, err error) {
	outcome := "found"
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		outcome = "invalid"
	case errors.Is(err, apperr.ErrNotFound):
		outcome = "empty"
	case err != nil:
		outcome = "error"
		l.span.RecordError(err)
		l.span.SetStatus(codes.Error, l.operation+"_failed")
	case !found:
		outcome = "empty"
	}
	l.span.SetAttributes(attribute.String("directory.outcome", outcome))
	l.span.End()

	observability.DirectoryLookups().WithLabelValues(l.operation, outcome).Inc()
	observability.DirectoryLookupLatency().WithLabelValues(l.operation).Observe(time.Since(l.start).Seconds())
}

func toOrganizationResponse(organization models.Organization) dto.OrganizationResponse {
	phones := make([]dto.PhoneNumberResponse, 0, len(organization.PhoneNumbers))
	for _, phone := range organization.PhoneNumbers {
		phones = append(phones, dto.PhoneNumberResponse{ID: phone.ID, PhoneNumber: phone.PhoneNumber})
	}

	response := dto.OrganizationResponse{
		ID:           organization.ID,
		Name:         organization.Name,
		BuildingID:   organization.BuildingID,
		PhoneNumbers: phones,
	}
	if organization.Building != nil {
		building := toBuildingResponse(*organization.Building)
		response.Building = &building
	}
	if len(organization.Activities) > 0 {
		response.Activities = make([]dto.ActivityResponse, 0, len(organization.Activities))
		for _, activity := range organization.Activities {
			response.Activities = append(response.Activities, toActivityResponse(activity))
		}
	}
	return response
}

func toOrganizationResponses(organizations []models.Organization) []dto.OrganizationResponse {
	if len(organizations) == 0 {
		return nil
	}
	responses := make([]dto.OrganizationResponse, 0, len(organizations))
	for _, organization := range organizations {
		responses = append(responses, toOrganizationResponse(organization))
	}
	return responses
}

func toBuildingResponse(building models.Building) dto.BuildingResponse {
	return dto.BuildingResponse{
		ID:        building.ID,
		City:      building.City,
		Street:    building.Street,
		House:     building.House,
		Latitude:  building.Latitude,
		Longitude: building.Longitude,
	}
}

func toActivityResponse(activity models.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{ID: activity.ID, Name: activity.Name, ParentID: activity.ParentID}
}

func isTaxonomyError(err error) bool {
	return errors.Is(err, apperr.ErrInvalidArgument) ||
		errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrDependencyFailure)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
