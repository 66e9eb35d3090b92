package middleware

import (
	"errors"
	"net/http"

	"mmvds/files-api/internal/apperr"
	"mmvds/files-api/internal/auth"
	"mmvds/files-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewSessionMiddleware resolves the calling user from the Authorization
// header and sets username and userID on the context. Every protected
// endpoint sits behind this; nothing touches storage or cache before the
// caller is resolved.
func NewSessionMiddleware(sessions *auth.Service, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		username, err := sessions.ResolveCaller(c.GetHeader("Authorization"))
		if err != nil {
			status, code := http.StatusUnauthorized, "unauthorized"

			switch {
			case errors.Is(err, apperr.ErrInvalidToken):
				code = "invalid_token"
			case errors.Is(err, apperr.ErrExpired):
				code = "token_expired"
			case errors.Is(err, apperr.ErrUnauthorized):
			default:
				status, code = http.StatusInternalServerError, "internal_server_error"
				zap.L().Error("Failed to resolve caller", zap.Error(err), zap.String("requestID", requestID))
			}

			c.AbortWithStatusJSON(status, gin.H{
				"error":     code,
				"requestID": requestID,
			})
			return
		}

		var user model.User

		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "internal_server_error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load caller", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("username", username)
		c.Set("userID", user.ID)
		c.Next()
	}
}
