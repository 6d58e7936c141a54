package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/membership-hub/membership-service/internal/api/dto"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

// bind decodes the request body into req and validates it.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}
