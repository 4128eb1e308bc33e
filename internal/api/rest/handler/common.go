package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends a JSON error response with the given status code and message.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
