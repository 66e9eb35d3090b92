package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileUpload stores the uploaded bytes under the caller's logical path
// and returns the created file descriptor. A path with a trailing slash
// is treated as a directory and the original file name is appended.
func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	logicalPath := c.Query("path")
	if logicalPath == "" {
		logicalPath = c.PostForm("path")
	}

	if logicalPath == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No path provided",
			"requestID": requestID,
		})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "internal_server_error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer f.Close()

	record, err := a.Files.Store(userID, fh.Filename, logicalPath, f)
	if err != nil {
		abortWithError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, record)
}
