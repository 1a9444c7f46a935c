package response

import "github.com/gin-gonic/gin"

// Error writes the error body shape used across the API: {"detail": "..."}.
func Error(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, gin.H{"detail": detail})
}

// AbortError is Error for middleware, stopping the handler chain.
func AbortError(c *gin.Context, httpStatus int, detail string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{"detail": detail})
}
