package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/repository"
)

// ActivityService exposes the activity taxonomy.
type ActivityService interface {
	// Subactivities flattens the named activity and its descendants. A nil result means the
	// activity does not exist.
	Subactivities(ctx context.Context, name string, maxDepth *int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	uow          repository.UnitOfWork
	resolver     *ActivityTreeResolver
	defaultDepth int
	logger       zerolog.Logger
}

// NewActivityService constructs the activity service.
func NewActivityService(uow repository.UnitOfWork, resolver *ActivityTreeResolver, defaultDepth int, logger zerolog.Logger) ActivityService {
	if defaultDepth < 0 {
		defaultDepth = DefaultActivityMaxDepth
	}
	return &activityService{
		uow:          uow,
		resolver:     resolver,
		defaultDepth: defaultDepth,
		logger:       logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Subactivities(ctx context.Context, name string, maxDepth *int) (result []dto.ActivityResponse, err error) {
	ctx, l := startLookup(ctx, "subactivities")
	defer func() { l.finish(len(result) > 0, err) }()

	if name, err = requireText("activity", name); err != nil {
		return nil, err
	}
	depth := s.defaultDepth
	if maxDepth != nil {
		depth = *maxDepth
	}
	if err = requireDepth(depth); err != nil {
		return nil, err
	}
	l.span.SetAttributes(attribute.String("directory.activity", name), attribute.Int("directory.max_depth", depth))

	var tree []models.Activity
	err = s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		tree, _, err = s.resolver.Resolve(ctx, store.Activities(), name, depth)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("activity", name).Msg("activity tree lookup failed")
		return nil, dependencyOrSelf(err)
	}
	if len(tree) == 0 {
		return nil, nil
	}

	responses := make([]dto.ActivityResponse, 0, len(tree))
	for _, activity := range tree {
		responses = append(responses, toActivityResponse(activity))
	}
	return responses, nil
}
