package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/membership-hub/membership-service/internal/domain"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

// Authorize decides whether the identity may act with the required role.
// An empty required role only demands authentication.
func Authorize(id *domain.Identity, required domain.StaffRole) error {
	if id == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if required == "" || id.Role == required {
		return nil
	}
	return apperrors.NewForbidden(string(required) + " role required")
}

// RequireRole rejects requests whose authenticated identity lacks the role.
// It must run after AuthMiddleware.Handle.
func RequireRole(role domain.StaffRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := IdentityFromContext(c)
		if err := Authorize(id, role); err != nil {
			return err
		}
		return c.Next()
	}
}
