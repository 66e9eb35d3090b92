package api

import (
	"net/http"

	"mmvds/files-api/internal/apperr"
	"mmvds/files-api/internal/cache"
	"mmvds/files-api/model"

	"github.com/gin-gonic/gin"
)

// downloadDescriptor is what the download cache memoizes: the metadata
// record plus the resolved on-disk location.
type downloadDescriptor struct {
	Record   model.File `json:"record"`
	DiskPath string     `json:"disk_path"`
}

// FileDownload serves a file by generated ID or by logical path. The
// lookup, ownership check and path resolution run through a read-through
// cache keyed by the selector and the caller's bearer credential, so a
// hit never touches the database again until the entry is evicted.
func (a *API) FileDownload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	selector := c.Query("file")
	if selector == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	key := cache.Key{
		Op:         "download_file",
		File:       selector,
		Credential: c.GetHeader("Authorization"),
	}

	desc, err := cache.Fetch(c.Request.Context(), a.Cache, key, func() (downloadDescriptor, error) {
		record, err := a.Files.Lookup(userID, selector)
		if err != nil {
			return downloadDescriptor{}, err
		}

		if err := a.Files.CheckOwnership(record, userID); err != nil {
			return downloadDescriptor{}, err
		}

		if !record.IsDownloadable {
			return downloadDescriptor{}, apperr.ErrForbidden
		}

		return downloadDescriptor{
			Record:   *record,
			DiskPath: a.Files.DiskPath(record.UserID, record.Path),
		}, nil
	})
	if err != nil {
		abortWithError(c, requestID, err)
		return
	}

	c.FileAttachment(desc.DiskPath, desc.Record.Name)
}
