package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserAuth verifies the credentials and returns a fresh bearer token.
// Any previously issued token for the user stops resolving.
func (a *API) UserAuth(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data authBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Username == "" || data.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Username and password fields can't be empty",
			"requestID": requestID,
		})
		return
	}

	result, err := a.Sessions.Authenticate(data.Username, data.Password)
	if err != nil {
		abortWithError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
