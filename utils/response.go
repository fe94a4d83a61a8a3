package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse writes {"error": message} and aborts the chain.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
}

// ResultResponse writes {"result": result}.
func ResultResponse(c *gin.Context, statusCode int, result string) {
	c.JSON(statusCode, gin.H{"result": result})
}
