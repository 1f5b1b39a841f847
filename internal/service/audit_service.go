package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/coach-gateway/internal/domain"
	"github.com/spec-kit/coach-gateway/internal/events"
	"github.com/spec-kit/coach-gateway/internal/repository"
)

// AuditService persists handled membership events into the Postgres
// ledger. Audit failures are logged and never surfaced to the webhook
// sender.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.MembershipEventRepository
	logger     *zap.Logger
}

// NewAuditService creates the service. A nil repository disables auditing.
func NewAuditService(dispatcher events.Dispatcher, repo repository.MembershipEventRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		repo:       repo,
		logger:     logger,
	}
}

// RegisterHandlers subscribes the audit writer to membership events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil || a.repo == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventMembershipStarted, a.handleEvent)
	a.dispatcher.Subscribe(events.EventMembershipUpdated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventMembershipCancelled, a.handleEvent)
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	record := &domain.MembershipEvent{
		ID:         event.ID,
		Type:       string(event.Type),
		Email:      event.Email,
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt,
	}
	if err := a.repo.Record(ctx, record); err != nil {
		a.logger.Error("failed to record membership event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	a.logger.Info("membership event recorded",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("email", event.Email))
	return nil
}
