package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentportal/internal/app/models/dto"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/logger"
)

const exposeErrorsKey = "exposeInternalErrors"

// ErrorExposure records whether store failure text may be sent to clients
func ErrorExposure(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(exposeErrorsKey, expose)
		c.Next()
	}
}

func internalMessage(c *gin.Context, err error, fallback string) string {
	if c.GetBool(exposeErrorsKey) {
		return err.Error()
	}
	return fallback
}

// StatusClientClosedRequest is written when the client went away before the
// handler finished, following the nginx convention.
const StatusClientClosedRequest = 499

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, body := errorResponse(c, err)

	if status == StatusClientClosedRequest {
		logger.Warn().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request canceled by client")
	} else if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, body)
}

func errorResponse(c *gin.Context, err error) (int, *dto.ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, apperrors.MessageOf(err, "Bad request"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, apperrors.MessageOf(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrTooManyRequests):
		return http.StatusTooManyRequests, dto.NewErrorResponse(dto.ErrorCodeTooManyRequests, "Too many requests, try again later")
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, dto.NewErrorResponse(dto.ErrorCodeRequestCanceled, "Request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeDatabaseError, internalMessage(c, err, "Request timed out"))
	case errors.Is(err, apperrors.ErrStoreFailure):
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeDatabaseError, internalMessage(c, err, "Internal server error"))
	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, internalMessage(c, err, "Internal server error"))
	}
}

// NotFound answers unknown routes with the standard error body
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Route not found"))
	}
}
