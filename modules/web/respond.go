package web

import (
	"net/http"

	"auxbox/helpers/apierr"
	"auxbox/helpers/logs"

	"github.com/gin-gonic/gin"
)

// respondData wraps a successful result in the {code,data} envelope.
func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": http.StatusOK,
		"data": data,
	})
}

// respondError writes the {code,error} envelope. Errors outside the
// taxonomy become a generic 400 so internal detail stays internal.
func respondError(c *gin.Context, err error) {
	if apiErr := apierr.From(err); apiErr != nil {
		c.AbortWithStatusJSON(apiErr.Code, gin.H{
			"code":  apiErr.Code,
			"error": apiErr.Message,
		})
		return
	}

	logs.GetLogger().WithError(err).WithField("module", "web").Error("Unclassified handler error")
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code":  http.StatusBadRequest,
		"error": "something bad has happened",
	})
}
