package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentportal/internal/app/models/dto"
)

// ValidatedBodyKey holds the bound request body
const ValidatedBodyKey = "validatedBody"

// ValidateJSON binds the JSON body into a fresh T and runs its binding rules.
// Handlers read the result with ValidatedBody.
func ValidateJSON[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := new(T)
		if err := c.ShouldBindJSON(body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.HandleValidationError(err))
			return
		}

		c.Set(ValidatedBodyKey, body)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateJSON
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	value, exists := c.Get(ValidatedBodyKey)
	if !exists {
		return nil, false
	}
	body, ok := value.(*T)
	return body, ok
}
