package services

import (
	"errors"

	"idm_backend/internal/validator"
	"idm_backend/pkg/apperrors"
)

// asCreateError converts a validator failure into the typed
// CannotCreate<Entity> error carrying field-level context.
func asCreateError(entity string, err error) error {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.CannotCreate(entity, vErr.Errors)
	}
	return apperrors.Internal(err)
}

func asUpdateError(entity string, err error) error {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.CannotUpdate(entity, vErr.Errors)
	}
	return apperrors.Internal(err)
}
