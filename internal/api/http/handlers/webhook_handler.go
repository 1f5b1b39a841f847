package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coach-gateway/internal/service"
)

// WebhookHandler receives membership lifecycle events from the billing
// platform.
type WebhookHandler struct {
	webhooks        *service.WebhookService
	signatureHeader string
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(webhookService *service.WebhookService, signatureHeader string) *WebhookHandler {
	return &WebhookHandler{webhooks: webhookService, signatureHeader: signatureHeader}
}

// Handle processes POST /api/membership-webhook. The signature is computed
// over the exact raw body, so the body is never re-serialized here.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()

	if err := h.webhooks.VerifySignature(body, c.Get(h.signatureHeader)); err != nil {
		return err
	}
	if err := h.webhooks.HandleEvent(c.UserContext(), body); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true})
}
