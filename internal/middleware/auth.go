package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/service"
	"eventhub-backend/internal/token"
)

// Context keys under which the verified caller identity is stored.
const (
	CtxUserID = "uid"
	CtxEmail  = "email"
)

// Auth verifies the bearer token and stashes the caller identity in the gin
// context. It proves who the caller is; what they may do is decided
// downstream against stored state.
func Auth(tokens *token.Manager, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Debug().Err(err).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin gates a route group on the caller's stored role. Must run
// after Auth.
func RequireAdmin(access *service.Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(CtxUserID)
		if err := access.RequireAdmin(c.Request.Context(), uid); err != nil {
			c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}
