package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping reports per-subsystem latency. Failed subsystems come back null
// without affecting the others.
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, a.Health.PingAll(c.Request.Context()))
}
