package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/coach-gateway/internal/domain"
	"github.com/spec-kit/coach-gateway/internal/events"
	"github.com/spec-kit/coach-gateway/internal/membership"
	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

// WebhookService verifies signed membership lifecycle events from the
// billing platform and keeps the supporter allow-list consistent. The
// platform retries on non-2xx, so unknown payload shapes are acknowledged
// without action rather than erroring.
type WebhookService struct {
	secret     string
	store      membership.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewWebhookService builds the service.
func NewWebhookService(secret string, store membership.Store, dispatcher events.Dispatcher, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		secret:     secret,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		SupporterEmail string `json:"supporter_email"`
		Email          string `json:"email"`
	} `json:"data"`
}

// VerifySignature checks the hex HMAC-SHA256 of the exact raw body. No
// state mutation happens unless this passes. Length is compared first,
// then the digests in constant time.
func (s *WebhookService) VerifySignature(body []byte, signature string) error {
	if s.secret == "" {
		return apperrors.NewServerMisconfigured()
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(signature) != len(expected) {
		return apperrors.NewUnauthorized("invalid signature")
	}
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return apperrors.NewUnauthorized("invalid signature")
	}
	return nil
}

// HandleEvent applies a verified event to the membership store and
// publishes it for auditing. Unknown types and payloads without a
// derivable email are acknowledged as no-ops.
func (s *WebhookService) HandleEvent(ctx context.Context, body []byte) error {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Warn("unparseable webhook payload; acknowledging", zap.Error(err))
		return nil
	}

	email := membership.NormalizeEmail(payload.Data.SupporterEmail)
	if email == "" {
		email = membership.NormalizeEmail(payload.Data.Email)
	}
	if email == "" {
		s.logger.Info("webhook payload without email; acknowledging",
			zap.String("event_type", payload.Type))
		return nil
	}

	switch payload.Type {
	case domain.MembershipStarted, domain.MembershipUpdated:
		if err := s.store.Activate(ctx, email); err != nil {
			return err
		}
	case domain.MembershipCancelled:
		if err := s.store.Deactivate(ctx, email); err != nil {
			return err
		}
	default:
		s.logger.Info("ignoring webhook event type", zap.String("event_type", payload.Type))
		return nil
	}

	s.publish(ctx, payload.Type, email, body)
	return nil
}

func (s *WebhookService) publish(ctx context.Context, eventType, email string, body []byte) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(events.EventType(eventType), email, json.RawMessage(body))
	_ = s.dispatcher.Publish(ctx, event)
}
