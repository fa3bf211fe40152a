package service

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/middleware"
	"github.com/noah-isme/companies-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

const seedSchemaURL = "companies://seed.schema.json"

const seedSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "buildings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "city", "street", "house", "latitude", "longitude"],
        "properties": {
          "key": {"type": "string", "minLength": 1},
          "city": {"type": "string", "minLength": 1},
          "street": {"type": "string", "minLength": 1},
          "house": {"type": "string", "minLength": 1},
          "latitude": {"type": "number", "minimum": -90, "maximum": 90},
          "longitude": {"type": "number", "minimum": -180, "maximum": 180}
        }
      }
    },
    "activities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "parent": {"type": "string"}
        }
      }
    },
    "organizations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "building": {"type": "string"},
          "phone_numbers": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "activities": {"type": "array", "items": {"type": "string", "minLength": 1}}
        }
      }
    },
    "users": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["username", "password"],
        "properties": {
          "username": {"type": "string", "minLength": 1},
          "password": {"type": "string", "minLength": 1},
          "disabled": {"type": "boolean"},
          "permissions": {"type": "array", "items": {"type": "string", "minLength": 1}}
        }
      }
    }
  }
}`

var compiledSeedSchema = jsonschema.MustCompileString(seedSchemaURL, seedSchema)

// SeedService loads directory snapshots.
type SeedService interface {
	// Import loads a JSON document uploaded through the API, guarded by the seed token.
	Import(ctx context.Context, token string, document []byte) (dto.SeedSummary, error)
	// ImportTrusted loads a JSON document from an operator-controlled source.
	ImportTrusted(ctx context.Context, document []byte) (dto.SeedSummary, error)
}

type seedService struct {
	repo    repository.SeedRepository
	audit   AuditService
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service. audit may be nil.
func NewSeedService(repo repository.SeedRepository, audit AuditService, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		repo:    repo,
		audit:   audit,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) Import(ctx context.Context, token string, document []byte) (dto.SeedSummary, error) {
	if !s.enabled {
		return dto.SeedSummary{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		s.record(ctx, AuditOutcomeRejected, nil)
		return dto.SeedSummary{}, ErrSeedUnauthorized
	}
	return s.ImportTrusted(ctx, document)
}

func (s *seedService) ImportTrusted(ctx context.Context, document []byte) (dto.SeedSummary, error) {
	seed, err := parseSeedDocument(document)
	if err != nil {
		return dto.SeedSummary{}, err
	}

	snapshot, err := toDirectorySeed(seed)
	if err != nil {
		return dto.SeedSummary{}, err
	}

	counts, err := s.repo.Import(ctx, snapshot)
	if err != nil {
		var reference repository.ErrSeedReference
		if errors.As(err, &reference) {
			return dto.SeedSummary{}, apperr.InvalidArgument("%s", reference.Error())
		}
		s.logger.Error().Err(err).Msg("seed import failed")
		return dto.SeedSummary{}, dependencyOrSelf(err)
	}

	summary := dto.SeedSummary{
		Buildings:     counts.Buildings,
		Activities:    counts.Activities,
		Organizations: counts.Organizations,
		PhoneNumbers:  counts.PhoneNumbers,
		Users:         counts.Users,
	}
	s.logger.Info().
		Int64("buildings", summary.Buildings).
		Int64("activities", summary.Activities).
		Int64("organizations", summary.Organizations).
		Int64("users", summary.Users).
		Msg("directory seeded")
	s.record(ctx, AuditOutcomeSuccess, map[string]interface{}{
		"buildings":     summary.Buildings,
		"activities":    summary.Activities,
		"organizations": summary.Organizations,
		"users":         summary.Users,
	})
	return summary, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func (s *seedService) record(ctx context.Context, outcome string, metadata map[string]interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, AuditEvent{
		Actor:         "seed",
		Action:        AuditActionSeedImport,
		Outcome:       outcome,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		Metadata:      metadata,
	})
}

func parseSeedDocument(document []byte) (dto.SeedDocument, error) {
	if len(bytes.TrimSpace(document)) == 0 {
		return dto.SeedDocument{}, apperr.InvalidArgument("seed document is empty")
	}
	if !isJSON(document) {
		return dto.SeedDocument{}, apperr.InvalidArgument("seed document must be JSON, got %s", mimetype.Detect(document).String())
	}

	var raw interface{}
	if err := json.Unmarshal(document, &raw); err != nil {
		return dto.SeedDocument{}, apperr.InvalidArgument("seed document is not valid JSON")
	}
	if err := compiledSeedSchema.Validate(raw); err != nil {
		return dto.SeedDocument{}, apperr.InvalidArgument("seed document does not match schema: %v", err)
	}

	var seed dto.SeedDocument
	if err := json.Unmarshal(document, &seed); err != nil {
		return dto.SeedDocument{}, apperr.InvalidArgument("seed document is not valid JSON")
	}
	return seed, nil
}

func isJSON(document []byte) bool {
	for detected := mimetype.Detect(document); detected != nil; detected = detected.Parent() {
		if detected.Is("application/json") {
			return true
		}
	}
	return false
}

func toDirectorySeed(seed dto.SeedDocument) (repository.DirectorySeed, error) {
	snapshot := repository.DirectorySeed{
		Buildings:     make([]repository.SeedBuilding, 0, len(seed.Buildings)),
		Activities:    make([]repository.SeedActivity, 0, len(seed.Activities)),
		Organizations: make([]repository.SeedOrganization, 0, len(seed.Organizations)),
		Users:         make([]repository.SeedUser, 0, len(seed.Users)),
	}

	for _, building := range seed.Buildings {
		snapshot.Buildings = append(snapshot.Buildings, repository.SeedBuilding{
			Key:       strings.TrimSpace(building.Key),
			City:      strings.TrimSpace(building.City),
			Street:    strings.TrimSpace(building.Street),
			House:     strings.TrimSpace(building.House),
			Latitude:  building.Latitude,
			Longitude: building.Longitude,
		})
	}
	for _, activity := range seed.Activities {
		snapshot.Activities = append(snapshot.Activities, repository.SeedActivity{
			Name:   strings.TrimSpace(activity.Name),
			Parent: strings.TrimSpace(activity.Parent),
		})
	}
	for _, organization := range seed.Organizations {
		snapshot.Organizations = append(snapshot.Organizations, repository.SeedOrganization{
			Name:         strings.TrimSpace(organization.Name),
			BuildingKey:  strings.TrimSpace(organization.Building),
			PhoneNumbers: organization.PhoneNumbers,
			Activities:   organization.Activities,
		})
	}
	for _, user := range seed.Users {
		hashed, err := HashPassword(user.Password)
		if err != nil {
			return repository.DirectorySeed{}, apperr.InvalidArgument("password of %q cannot be hashed", user.Username)
		}
		snapshot.Users = append(snapshot.Users, repository.SeedUser{
			Username:       strings.TrimSpace(user.Username),
			HashedPassword: hashed,
			Disabled:       user.Disabled,
			Permissions:    user.Permissions,
		})
	}
	return snapshot, nil
}
