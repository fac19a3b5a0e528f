package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/logger"
)

// --- Central Error Handling ---

// HandleAPIError maps a service error onto a status code and error body.
// Unexpected errors are logged and answered with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error while serving request")
	}
	c.AbortWithStatusJSON(status, body)
}

func errorResponse(err error) (int, *dto.ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound,
			apperrors.UserMessage(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists,
			apperrors.UserMessage(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, MsgNoToken)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidToken, MsgTokenNotValid)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, MsgPermissionDenied)
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrInvalidPassword),
		errors.Is(err, apperrors.ErrInvalidID):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, validationMessage(err))
	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// validationMessage prefers a CustomError message, then the text after the
// sentinel prefix ("validation failed: title is required" -> "title is required").
func validationMessage(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}
	return msg
}
