package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func writeSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      status,
		RequestID: getRequestID(c),
	})
}

// HandleSuccess 200 + data
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	writeSuccess(c, http.StatusOK, data, message)
}

// HandleCreated 201 + created resource
func HandleCreated(c *gin.Context, data interface{}, message string) {
	writeSuccess(c, http.StatusCreated, data, message)
}
