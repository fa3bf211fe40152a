package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/geo"
	"github.com/noah-isme/companies-api/internal/geocode"
	"github.com/noah-isme/companies-api/internal/repository"
)

// GeoSearchService finds buildings around a point together with the organizations they host.
type GeoSearchService interface {
	BuildingsWithOrganizations(ctx context.Context, lat, lon, radiusKm float64) ([]dto.BuildingWithOrganizations, error)
}

type geoSearchService struct {
	uow      repository.UnitOfWork
	geocoder geocode.Geocoder
	logger   zerolog.Logger
}

// NewGeoSearchService constructs the geo-radius search.
func NewGeoSearchService(uow repository.UnitOfWork, geocoder geocode.Geocoder, logger zerolog.Logger) GeoSearchService {
	return &geoSearchService{
		uow:      uow,
		geocoder: geocoder,
		logger:   logger.With().Str("component", "geo_search_service").Logger(),
	}
}

// BuildingsWithOrganizations resolves the city at the centre point, keeps the city's buildings
// within radiusKm and attaches the organizations registered at each address. An empty result is
// not an error; any persistence failure fails the whole call.
func (s *geoSearchService) BuildingsWithOrganizations(ctx context.Context, lat, lon, radiusKm float64) (result []dto.BuildingWithOrganizations, err error) {
	ctx, l := startLookup(ctx, "by_coordinates",
		attribute.Float64("geo.latitude", lat),
		attribute.Float64("geo.longitude", lon),
		attribute.Float64("geo.radius_km", radiusKm),
	)
	defer func() { l.finish(len(result) > 0, err) }()

	if err = geo.ValidateQuery(lat, lon, radiusKm); err != nil {
		return nil, err
	}

	city, found, err := s.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).Float64("latitude", lat).Float64("longitude", lon).Msg("reverse geocode failed")
		if isContextError(err) {
			return nil, err
		}
		return nil, apperr.Dependency("geocoder", err)
	}
	if !found {
		return nil, apperr.NotFound("no city found for coordinates %.6f, %.6f", lat, lon)
	}
	l.span.SetAttributes(attribute.String("geo.city", city))

	center := geo.Point{Lat: lat, Lon: lon}
	err = s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		buildings, err := store.Buildings().ListByCity(ctx, city)
		if err != nil {
			return err
		}

		records := make([]dto.BuildingWithOrganizations, 0, len(buildings))
		for _, building := range buildings {
			point := geo.Point{Lat: building.Latitude, Lon: building.Longitude}
			within, err := geo.IsWithinRadius(center, point, radiusKm)
			if err != nil {
				s.logger.Warn().Err(err).Uint("building_id", building.ID).Msg("skipping building with invalid coordinates")
				continue
			}
			if !within {
				continue
			}

			organizations, err := store.Organizations().ListByAddress(ctx, building.City, building.Street, building.House)
			if err != nil {
				return err
			}
			records = append(records, dto.BuildingWithOrganizations{
				BuildingResponse: toBuildingResponse(building),
				DistanceKm:       geo.DistanceKm(center, point),
				Organizations:    nonNilOrganizations(toOrganizationResponses(organizations)),
			})
		}
		result = records
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("city", city).Msg("building search failed")
		return nil, dependencyOrSelf(err)
	}

	s.logger.Debug().Str("city", city).Int("buildings", len(result)).Msg("geo search completed")
	return result, nil
}

func nonNilOrganizations(organizations []dto.OrganizationResponse) []dto.OrganizationResponse {
	if organizations == nil {
		return []dto.OrganizationResponse{}
	}
	return organizations
}
