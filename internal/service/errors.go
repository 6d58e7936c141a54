package service

import (
	"errors"

	"github.com/membership-hub/membership-service/internal/repository"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

// mapStoreError translates repository errors into domain errors.
func mapStoreError(err error, resource string, details map[string]any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, details)
	case errors.Is(err, repository.ErrDuplicateEmail):
		email, _ := details["email"].(string)
		return apperrors.NewDuplicateEmail(email)
	default:
		return apperrors.NewStoreError(err)
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return apperrors.ToDomainError(err).Code
}
