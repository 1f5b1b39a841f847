package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/coach-gateway/internal/events"
	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

const webhookSecret = "hook-secret"

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestWebhookService(store *memStore, dispatcher events.Dispatcher) *WebhookService {
	return NewWebhookService(webhookSecret, store, dispatcher, zap.NewNop())
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	svc := newTestWebhookService(newMemStore(), nil)
	body := []byte(`{"type":"membership.started","data":{"email":"a@b.com"}}`)

	require.NoError(t, svc.VerifySignature(body, signBody(webhookSecret, body)))

	// Wrong secret.
	err := svc.VerifySignature(body, signBody("other-secret", body))
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)

	// Signature over different body.
	err = svc.VerifySignature(body, signBody(webhookSecret, []byte("different")))
	require.Error(t, err)

	// Short signature is rejected on the length check alone.
	err = svc.VerifySignature(body, "abc123")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)

	// Empty signature.
	require.Error(t, svc.VerifySignature(body, ""))
}

func TestVerifySignature_Misconfigured(t *testing.T) {
	t.Parallel()

	svc := NewWebhookService("", newMemStore(), nil, zap.NewNop())
	err := svc.VerifySignature([]byte("body"), "sig")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.ToDomainError(err).HTTPStatus)
}

func TestHandleEvent_Lifecycle(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestWebhookService(store, nil)
	ctx := context.Background()

	started := []byte(`{"type":"membership.started","data":{"supporter_email":"A@B.com"}}`)
	require.NoError(t, svc.HandleEvent(ctx, started))

	active, err := store.IsActive(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, active)

	cancelled := []byte(`{"type":"membership.cancelled","data":{"supporter_email":"a@b.com"}}`)
	require.NoError(t, svc.HandleEvent(ctx, cancelled))

	active, err = store.IsActive(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestHandleEvent_TolerantAcks(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestWebhookService(store, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"type":"invoice.paid","data":{"email":"a@b.com"}}`},
		{"no email", `{"type":"membership.started","data":{}}`},
		{"unparseable", `not json at all`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, svc.HandleEvent(ctx, []byte(tt.body)))
		})
	}

	// None of these should have touched membership state.
	active, err := store.IsActive(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestHandleEvent_EmailFallbackField(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestWebhookService(store, nil)
	ctx := context.Background()

	body := []byte(`{"type":"membership.updated","data":{"email":"fallback@b.com"}}`)
	require.NoError(t, svc.HandleEvent(ctx, body))

	active, err := store.IsActive(ctx, "fallback@b.com")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestHandleEvent_StoreError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.err = errors.New("redis down")
	svc := newTestWebhookService(store, nil)

	body := []byte(`{"type":"membership.started","data":{"email":"a@b.com"}}`)
	err := svc.HandleEvent(context.Background(), body)
	require.Error(t, err)
}

func TestHandleEvent_PublishesAuditEvent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	dispatcher := events.NewInMemoryDispatcher()

	var got []events.Event
	dispatcher.Subscribe(events.EventMembershipStarted, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	svc := newTestWebhookService(store, dispatcher)
	body := []byte(`{"type":"membership.started","data":{"email":"a@b.com"}}`)
	require.NoError(t, svc.HandleEvent(context.Background(), body))

	require.Len(t, got, 1)
	assert.Equal(t, "a@b.com", got[0].Email)
	assert.Equal(t, events.EventMembershipStarted, got[0].Type)
	assert.NotEmpty(t, got[0].ID)
	assert.JSONEq(t, string(body), string(got[0].Payload))
}
