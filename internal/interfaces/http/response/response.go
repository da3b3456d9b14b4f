package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "notify-gate.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Paginated sends a list response with pagination metadata
func Paginated(c *gin.Context, status int, items interface{}, pagination interface{}) {
	c.JSON(status, gin.H{
		"items":      items,
		"pagination": pagination,
	})
}

// Error sends an error response, mapping domain errors to HTTP status codes
func Error(c *gin.Context, err error) {
	appErr, ok := err.(*domainerrors.AppError)
	if !ok {
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorWithStatus sends an error response with an explicit status and code
func ErrorWithStatus(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
