package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"snapgram/internal/core/apperr"
	"snapgram/internal/core/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier is satisfied by *session.Manager.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*session.Claims, error)
}

// TokenFromRequest reads the session cookie, then the Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// JWTAuthMiddleware rejects unauthenticated requests and stores userID and tokenID in the context.
func JWTAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifier.Verify(c.Request.Context(), TokenFromRequest(c))
		if errors.Is(err, apperr.ErrUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": apperr.Message(err, "Unauthenticated user!"),
			})
			return
		}
		if err != nil {
			logger.Error("❌ could not verify session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error!",
			})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("tokenID", claims.TokenID)
		c.Next()
	}
}
