package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecyclehub/ecyclehub/internal/auth"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

// parseBody decodes the JSON body into out.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok || p.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}
