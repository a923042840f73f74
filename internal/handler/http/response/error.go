package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// User domain errors
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		ErrorWithCode(w, http.StatusConflict, "ALREADY_CLOCKED_IN", "Already clocked in for today")
	case errors.Is(err, attendance.ErrNoOpenSession):
		ErrorWithCode(w, http.StatusConflict, "NO_OPEN_SESSION", "No open session to clock out from")
	case errors.Is(err, attendance.ErrInvalidDateRange):
		ErrorWithCode(w, http.StatusBadRequest, "INVALID_DATE_RANGE", err.Error())
	case errors.Is(err, attendance.ErrStoreUnavailable):
		slog.Error("Attendance store unavailable", "error", err)
		ErrorWithCode(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Attendance store is temporarily unavailable")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
