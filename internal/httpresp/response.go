package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes data as a 200 JSON body. Lists are written as bare arrays.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
