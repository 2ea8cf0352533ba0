package auth

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

// RequireSelf ensures the user id in the named route parameter belongs to
// the caller. Residents can only read their own profile and history.
func RequireSelf(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		id, err := ParseUserID(c.Params(param))
		if err != nil {
			return err
		}
		if id != principal.UserID {
			return apperrors.NewForbidden("access to another user's data is not allowed")
		}
		return c.Next()
	}
}

// ParseUserID parses a positive user id from a path or body value.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user id", map[string]any{
			"violations": []map[string]string{{"field": "user_id", "message": "must be a positive integer"}},
		})
	}
	return id, nil
}
