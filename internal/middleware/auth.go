package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/morethan-log/core/internal/pkg/response"
)

// Admin returns a middleware that guards mutating endpoints with the
// configured admin token. An empty configured token disables those
// endpoints entirely.
func Admin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.Forbidden(c)
			return
		}
		provided := extractToken(c)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return strings.TrimSpace(c.Query("token"))
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return header
}
