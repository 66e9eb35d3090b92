package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FileList returns every file descriptor the caller owns. A caller with
// zero files gets a not found; they authenticated, so the account itself
// is known to exist.
func (a *API) FileList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	records, err := a.Files.ListForUser(userID)
	if err != nil {
		abortWithError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
