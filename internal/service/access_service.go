package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/coach-gateway/internal/auth"
	"github.com/spec-kit/coach-gateway/internal/config"
	"github.com/spec-kit/coach-gateway/internal/domain"
	"github.com/spec-kit/coach-gateway/internal/membership"
	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

// AccessService exchanges supporter access codes and membership emails for
// signed bearer tokens, and authorizes claims on proxy calls.
type AccessService struct {
	codec     *auth.Codec
	codes     *auth.CodeSet
	store     membership.Store
	secretSet bool
	codeTTL   time.Duration
	emailTTL  time.Duration
	now       func() time.Time
}

// NewAccessService builds the service.
func NewAccessService(cfg config.AuthConfig, store membership.Store) *AccessService {
	return &AccessService{
		codec:     auth.NewCodec(cfg.SigningSecret),
		codes:     auth.NewCodeSet(cfg.AccessCodes),
		store:     store,
		secretSet: cfg.SigningSecret != "",
		codeTTL:   cfg.CodeTokenTTL(),
		emailTTL:  cfg.EmailTokenTTL(),
		now:       time.Now,
	}
}

// IssueFromCode validates a supporter access code and mints a long-lived token.
func (s *AccessService) IssueFromCode(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", apperrors.NewInvalidRequest("access code is required")
	}
	if !s.secretSet || s.codes.Empty() {
		return "", apperrors.NewServerMisconfigured()
	}

	normalized, ok := s.codes.Contains(code)
	if !ok {
		return "", apperrors.NewForbidden("invalid access code")
	}

	claim := domain.Claim{
		Code: normalized,
		Exp:  s.now().Add(s.codeTTL).UnixMilli(),
	}
	token, err := s.codec.Sign(claim)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return token, nil
}

// VerifyMembership checks the supporter allow-list for the email and mints
// a store-backed token when membership is active.
func (s *AccessService) VerifyMembership(ctx context.Context, email string) (string, error) {
	normalized := membership.NormalizeEmail(email)
	if normalized == "" {
		return "", apperrors.NewInvalidRequest("email is required")
	}
	if !s.secretSet {
		return "", apperrors.NewServerMisconfigured()
	}

	active, err := s.store.IsActive(ctx, normalized)
	if err != nil {
		return "", err
	}
	if !active {
		return "", apperrors.NewForbidden("no active membership found for this email")
	}

	claim := domain.Claim{
		Email: normalized,
		Exp:   s.now().Add(s.emailTTL).UnixMilli(),
	}
	token, err := s.codec.Sign(claim)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return token, nil
}

// AuthorizeClaim performs per-request authorization on an already verified
// claim. Email claims are re-checked against the membership store so a
// webhook cancellation revokes them immediately; code claims stay valid
// until expiry. All failures collapse to the generic 401 message.
func (s *AccessService) AuthorizeClaim(ctx context.Context, claim *domain.Claim) error {
	if claim.Email == "" {
		return nil
	}
	active, err := s.store.IsActive(ctx, claim.Email)
	if err != nil || !active {
		return apperrors.NewUnauthorized(auth.InvalidTokenMessage)
	}
	return nil
}

// Codec exposes the token codec for middleware wiring.
func (s *AccessService) Codec() *auth.Codec {
	return s.codec
}
