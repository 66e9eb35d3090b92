package api

import (
	"errors"
	"net/http"

	"mmvds/files-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// abortWithError maps the service error taxonomy onto stable HTTP
// responses. Every failure kind keeps a distinct error string so client
// code can branch on it.
func abortWithError(c *gin.Context, requestID string, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperr.ErrInvalidToken):
		status, code = http.StatusUnauthorized, "invalid_token"
	case errors.Is(err, apperr.ErrExpired):
		status, code = http.StatusUnauthorized, "token_expired"
	case errors.Is(err, apperr.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperr.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	default:
		status, code = http.StatusInternalServerError, "internal_server_error"
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     code,
		"requestID": requestID,
	})
}
