package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/repository"
)

// OrganizationService answers organization lookups. Absence is reported as nil or an empty
// slice, never as an error.
type OrganizationService interface {
	ByBuildingAddress(ctx context.Context, city, street, house string) ([]dto.OrganizationResponse, error)
	ByActivity(ctx context.Context, activity string) ([]dto.OrganizationResponse, error)
	ByID(ctx context.Context, id int64) (*dto.OrganizationResponse, error)
	ByName(ctx context.Context, name string) (*dto.OrganizationResponse, error)
	// BySubactivities aggregates the organizations of an activity and its descendants.
	// A nil maxDepth selects the configured default.
	BySubactivities(ctx context.Context, activity string, maxDepth *int) ([]dto.OrganizationResponse, error)
}

type organizationService struct {
	uow          repository.UnitOfWork
	resolver     *ActivityTreeResolver
	defaultDepth int
	logger       zerolog.Logger
}

// NewOrganizationService constructs the organization lookup service.
func NewOrganizationService(uow repository.UnitOfWork, resolver *ActivityTreeResolver, defaultDepth int, logger zerolog.Logger) OrganizationService {
	if defaultDepth < 0 {
		defaultDepth = DefaultActivityMaxDepth
	}
	return &organizationService{
		uow:          uow,
		resolver:     resolver,
		defaultDepth: defaultDepth,
		logger:       logger.With().Str("component", "organization_service").Logger(),
	}
}

func (s *organizationService) ByBuildingAddress(ctx context.Context, city, street, house string) (result []dto.OrganizationResponse, err error) {
	ctx, l := startLookup(ctx, "by_address")
	defer func() { l.finish(len(result) > 0, err) }()

	if city, err = requireText("city", city); err != nil {
		return nil, err
	}
	if street, err = requireText("street", street); err != nil {
		return nil, err
	}
	if house, err = requireText("house", house); err != nil {
		return nil, err
	}
	l.span.SetAttributes(attribute.String("directory.city", city))

	var organizations []models.Organization
	err = s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		organizations, err = store.Organizations().ListByAddress(ctx, city, street, house)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("city", city).Msg("address lookup failed")
		return nil, dependencyOrSelf(err)
	}
	return toOrganizationResponses(organizations), nil
}

func (s *organizationService) ByActivity(ctx context.Context, activity string) (result []dto.OrganizationResponse, err error) {
	ctx, l := startLookup(ctx, "by_activity")
	defer func() { l.finish(len(result) > 0, err) }()

	if activity, err = requireText("activity", activity); err != nil {
		return nil, err
	}
	l.span.SetAttributes(attribute.String("directory.activity", activity))

	var organizations []models.Organization
	err = s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		organizations, err = store.Organizations().ListByActivityName(ctx, activity)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("activity", activity).Msg("activity lookup failed")
		return nil, dependencyOrSelf(err)
	}
	return toOrganizationResponses(organizations), nil
}

func (s *organizationService) ByID(ctx context.Context, id int64) (result *dto.OrganizationResponse, err error) {
	ctx, l := startLookup(ctx, "by_id", attribute.Int64("directory.organization_id", id))
	defer func() { l.finish(result != nil, err) }()

	organizationID, err := requirePositiveID(id)
	if err != nil {
		return nil, err
	}

	var organization *models.Organization
	err = s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		organization, err = store.Organizations().FindByID(ctx, organizationID)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("organization_id", id).Msg("organization lookup failed")
		return nil, dependencyOrSelf(err)
	}
	if organization == nil {
		return nil, nil
	}
	response := toOrganizationResponse(*organization)
	return &response, nil
}

func (s *organizationService) ByName(ctx context.Context, name string) (result *dto.OrganizationResponse, err error) {
	ctx, l := startLookup(ctx, "by_name")
	defer func() { l.finish(result != nil, err) }()

	if name, err = requireText("name", name); err != nil {
		return nil, err
	}

	var organization *models.Organization
	err = s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		organization, err = store.Organizations().FindByName(ctx, name)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("organization lookup failed")
		return nil, dependencyOrSelf(err)
	}
	if organization == nil {
		return nil, nil
	}
	response := toOrganizationResponse(*organization)
	return &response, nil
}

func (s *organizationService) BySubactivities(ctx context.Context, activity string, maxDepth *int) (result []dto.OrganizationResponse, err error) {
	ctx, l := startLookup(ctx, "by_subactivities")
	defer func() { l.finish(len(result) > 0, err) }()

	if activity, err = requireText("activity", activity); err != nil {
		return nil, err
	}
	depth := s.defaultDepth
	if maxDepth != nil {
		depth = *maxDepth
	}
	if err = requireDepth(depth); err != nil {
		return nil, err
	}
	l.span.SetAttributes(attribute.String("directory.activity", activity), attribute.Int("directory.max_depth", depth))

	var organizations []models.Organization
	err = s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		tree, found, err := s.resolver.Resolve(ctx, store.Activities(), activity, depth)
		if err != nil || !found {
			return err
		}
		organizations = AggregateOrganizations(tree)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("activity", activity).Msg("sub-activity lookup failed")
		return nil, dependencyOrSelf(err)
	}
	return toOrganizationResponses(organizations), nil
}

// dependencyOrSelf keeps taxonomy and context errors intact and wraps everything else as a
// persistence failure.
func dependencyOrSelf(err error) error {
	if err == nil {
		return nil
	}
	if isTaxonomyError(err) || isContextError(err) {
		return err
	}
	return apperr.Dependency("persistence", err)
}
