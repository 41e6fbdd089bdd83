package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Ownership and
// assignment failures all collapse into the same 403 so a caller cannot
// probe which records exist.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrStudentNotAssigned),
		errors.Is(err, apperrors.ErrNotASupervisor):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", err)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", err)

	case errors.Is(err, apperrors.ErrAccountDisabled):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Account is disabled", err)

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", err)

	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", err)

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found", err)

	case errors.Is(err, apperrors.ErrUserNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found", err)

	case errors.Is(err, apperrors.ErrEntryNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Logbook entry not found", err)

	case errors.Is(err, apperrors.ErrClearanceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Clearance record not found", err)

	case errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", err)

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists", err)

	case errors.Is(err, apperrors.ErrMatricNoExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Matric number already exists", err)

	case errors.Is(err, apperrors.ErrEntryNotEditable),
		errors.Is(err, apperrors.ErrEntryNotDeletable),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrNoIndustryFeedback),
		errors.Is(err, apperrors.ErrAlreadyFinalReviewed),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeConflict, "Operation conflicts with the current state", err)

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrInvalidEmail),
		errors.Is(err, apperrors.ErrInvalidPassword),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", err)

	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.APIResponse{Error: errorDetail})
	}
}

// respondError prefers the wrapped CustomError message when one is present,
// keeping the sentinel's fallback otherwise
func respondError(c *gin.Context, status int, code dto.ErrorCode, fallback string, err error) {
	message := fallback

	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		message = customErr.Message
	}

	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, message),
	})
}
