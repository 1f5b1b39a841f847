package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coach-gateway/internal/domain"
	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

const claimKey = "auth_claim"

// InvalidTokenMessage is the re-verify hint shown on any token failure.
// The message is deliberately identical for forged, malformed and expired
// tokens.
const InvalidTokenMessage = "Invalid or expired access token. Please verify your membership again."

// Middleware authenticates bearer tokens on protected routes.
type Middleware struct {
	codec *Codec
}

// NewMiddleware constructs middleware over the token codec.
func NewMiddleware(codec *Codec) *Middleware {
	return &Middleware{codec: codec}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if !m.codec.Ready() {
		return apperrors.NewServerMisconfigured()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("Authorization required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("Authorization required")
	}

	claim, err := m.codec.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized(InvalidTokenMessage)
	}

	c.Locals(claimKey, claim)
	return c.Next()
}

// ClaimFromContext retrieves the authenticated token claim.
func ClaimFromContext(c *fiber.Ctx) (*domain.Claim, bool) {
	val := c.Locals(claimKey)
	if val == nil {
		return nil, false
	}
	claim, ok := val.(*domain.Claim)
	return claim, ok
}
