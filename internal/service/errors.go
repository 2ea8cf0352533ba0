package service

import (
	"errors"

	"github.com/ecyclehub/ecyclehub/internal/observability"
	"github.com/ecyclehub/ecyclehub/internal/repository"
	"github.com/ecyclehub/ecyclehub/internal/validation"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

// ErrUnsupportedSubmission is returned for a Submission variant the
// coordinator does not know.
var ErrUnsupportedSubmission = errors.New("unsupported submission")

// toDomainError translates validation and store errors into the errors
// surfaced to callers. Store details never leak past this point.
func toDomainError(err error, metrics *observability.Metrics) error {
	if err == nil {
		return nil
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if violations, ok := validation.AsViolations(err); ok {
		return validationError(violations)
	}
	if field, ok := repository.ConflictField(err); ok {
		metrics.RecordConflict(field)
		return apperrors.NewConflict(field)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("user", nil)
	}
	return apperrors.NewInternalError(err)
}

func validationError(violations validation.Violations) error {
	return apperrors.NewValidationError("validation failed", map[string]any{"violations": violations})
}
