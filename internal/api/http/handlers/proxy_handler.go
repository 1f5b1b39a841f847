package handlers

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/coach-gateway/internal/api/dto"
	"github.com/spec-kit/coach-gateway/internal/auth"
	"github.com/spec-kit/coach-gateway/internal/observability"
	"github.com/spec-kit/coach-gateway/internal/service"
	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

// ProxyHandler relays authenticated chat completion requests upstream.
type ProxyHandler struct {
	proxy   *service.ProxyService
	access  *service.AccessService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewProxyHandler constructs handler.
func NewProxyHandler(proxyService *service.ProxyService, accessService *service.AccessService, metrics *observability.Metrics, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{proxy: proxyService, access: accessService, metrics: metrics, logger: logger}
}

// Chat handles POST /api/proxy.
func (h *ProxyHandler) Chat(c *fiber.Ctx) error {
	claim, ok := auth.ClaimFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authorization required")
	}
	if err := h.access.AuthorizeClaim(c.UserContext(), claim); err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid request body")
	}
	if req.Messages == nil {
		return apperrors.NewInvalidRequest("messages must be an array")
	}

	if !req.Stream {
		content, err := h.proxy.Complete(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(dto.ChatResponse{Content: content})
	}

	// The request context ends when this handler returns, but the relay
	// below outlives it, so the upstream call gets its own context.
	upstream, err := h.proxy.Stream(context.Background(), req)
	if err != nil {
		return err
	}

	h.metrics.RecordStream()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer upstream.Close()

		buf := make([]byte, 4096)
		for {
			n, readErr := upstream.Read(buf)
			if n > 0 {
				if _, writeErr := w.Write(buf[:n]); writeErr != nil {
					// Client disconnected; stop relaying.
					return
				}
				if flushErr := w.Flush(); flushErr != nil {
					return
				}
			}
			if readErr != nil {
				if !errors.Is(readErr, io.EOF) {
					h.logger.Warn("upstream stream ended with error", zap.Error(readErr))
				}
				return
			}
		}
	}))

	return nil
}
