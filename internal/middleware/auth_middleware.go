package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentportal/internal/app/services"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/auth"
)

// Context keys set by SessionAuth
const (
	SessionKey   = "session"
	StudentIDKey = "studentID"
)

// AuthMiddleware guards routes with server-side sessions
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// SessionAuth requires a bearer token that refers to a live session
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, apperrors.ErrSessionNotFound)
			return
		}

		session, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(SessionKey, session)
		c.Set(StudentIDKey, session.StudentID)
		c.Next()
	}
}

// StudentOwnership rejects requests whose student query parameter names a
// different student than the session. Must run after SessionAuth.
func (m *AuthMiddleware) StudentOwnership(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.GetInt64(StudentIDKey)

		for _, param := range params {
			raw := c.Query(param)
			if raw == "" {
				continue
			}
			requested, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				// malformed ids are reported by the handler
				continue
			}
			if requested != owner {
				HandleAPIError(c, apperrors.NewForbiddenError("Session does not belong to the requested student"))
				return
			}
		}

		c.Next()
	}
}
