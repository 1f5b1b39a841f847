package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coach-gateway/internal/api/dto"
	"github.com/spec-kit/coach-gateway/internal/service"
	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

// AccessHandler exposes the token issuance endpoints.
type AccessHandler struct {
	access *service.AccessService
}

// NewAccessHandler constructs handler.
func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{access: accessService}
}

// VerifyAccess handles POST /api/verify-access. The request field is named
// email for historical reasons but carries a supporter access code.
func (h *AccessHandler) VerifyAccess(c *fiber.Ctx) error {
	var req dto.AccessCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("access code is required")
	}

	token, err := h.access.IssueFromCode(req.Email)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{Token: token})
}

// VerifyMembership handles POST /api/verify-membership.
func (h *AccessHandler) VerifyMembership(c *fiber.Ctx) error {
	var req dto.MembershipVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("email is required")
	}

	token, err := h.access.VerifyMembership(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{Token: token})
}
