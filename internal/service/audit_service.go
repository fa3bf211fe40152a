package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/repository"
)

// Audit actions and outcomes.
const (
	AuditActionTokenIssue = "token.issue"
	AuditActionSeedImport = "seed.import"
	AuditOutcomeSuccess   = "success"
	AuditOutcomeRejected  = "rejected"
)

// AuditEvent describes one security relevant event.
type AuditEvent struct {
	Actor         string
	Action        string
	Outcome       string
	CorrelationID string
	Metadata      map[string]interface{}
}

// AuditPublisher is the subset of *nats.Conn used to fan out audit events.
type AuditPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// AuditService records audit events. Recording never fails the calling operation.
type AuditService interface {
	Record(ctx context.Context, event AuditEvent)
	Recent(ctx context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, int64, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	publisher AuditPublisher
	subject   string
	logger    zerolog.Logger
}

type auditMessage struct {
	Actor      string                 `json:"actor"`
	Action     string                 `json:"action"`
	Outcome    string                 `json:"outcome"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewAuditService constructs the audit recorder. publisher may be nil.
func NewAuditService(repo repository.AuditLogRepository, publisher AuditPublisher, subject string, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		publisher: publisher,
		subject:   subject,
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, event AuditEvent) {
	entry := models.AuditLog{
		Actor:    event.Actor,
		Action:   event.Action,
		Outcome:  event.Outcome,
		Metadata: datatypes.JSONMap(event.Metadata),
	}
	if entry.Metadata == nil {
		entry.Metadata = datatypes.JSONMap{}
	}
	if event.CorrelationID != "" {
		entry.Metadata["correlation_id"] = event.CorrelationID
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", event.Action).Msg("failed to persist audit entry")
	}

	if s.publisher == nil || s.subject == "" {
		return
	}
	payload, err := json.Marshal(auditMessage{
		Actor:      entry.Actor,
		Action:     entry.Action,
		Outcome:    entry.Outcome,
		Metadata:   entry.Metadata,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode audit event")
		return
	}
	msg := nats.NewMsg(s.subject)
	msg.Data = payload
	if event.CorrelationID != "" {
		msg.Header.Set("X-Correlation-ID", event.CorrelationID)
	}
	if err := s.publisher.PublishMsg(msg); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish audit event")
	}
}

func (s *auditService) Recent(ctx context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, int64, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, dependencyOrSelf(err)
	}
	return entries, total, nil
}
