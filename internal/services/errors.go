package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/ideabox/internal/models"
)

var domainErrors = []error{
	models.ErrValidation,
	models.ErrNotFound,
	models.ErrConflict,
	models.ErrUnauthorized,
	models.ErrForbidden,
	models.ErrAlreadyVoted,
	models.ErrAlreadyApproved,
	models.ErrAccountBlocked,
	models.ErrInternalServer,
}

func isDomainError(err error) bool {
	for _, sentinel := range domainErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// storageFailure passes domain errors through unchanged. Anything else is
// logged and replaced with models.ErrInternalServer.
func storageFailure(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) error {
	if isDomainError(err) {
		return err
	}
	logger.ErrorContext(ctx, msg, append(attrs, slog.Any("error", err))...)
	return models.ErrInternalServer
}

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin() {
		return models.ErrForbidden
	}
	return nil
}
