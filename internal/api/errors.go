package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/patientedu/internal/api/shared"
	"github.com/phrazzld/patientedu/internal/banner"
	"github.com/phrazzld/patientedu/internal/domain"
	"github.com/phrazzld/patientedu/internal/service"
	"github.com/phrazzld/patientedu/internal/service/auth"
	"github.com/phrazzld/patientedu/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, banner.ErrIndexOutOfRange):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrTooManyAttempts):
		return http.StatusTooManyRequests

	case errors.Is(err, store.ErrStoreClosed),
		errors.Is(err, service.ErrStillLoading):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that carries
// no internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "Administrator credentials required"
	case errors.Is(err, banner.ErrIndexOutOfRange):
		return "Banner index out of range"
	case errors.Is(err, service.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"
	case errors.Is(err, auth.ErrTooManyAttempts):
		return "Too many login attempts"
	case errors.Is(err, service.ErrStillLoading):
		return "Catalog is still loading"
	case errors.Is(err, store.ErrStoreClosed):
		return "Service is shutting down"
	case errors.Is(err, service.ErrExportFailed):
		return "Failed to export document"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted cause. A non-empty message overrides the mapped one for
// unmapped (500) errors only.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	safe := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && message != "" && !errors.Is(err, service.ErrExportFailed) {
		safe = message
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, safe, err, opts...)
}
