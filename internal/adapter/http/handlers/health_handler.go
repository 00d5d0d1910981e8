package handlers

import (
	"net/http"
	"time"

	"payhub/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  response.HealthResponse
// @Router   /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Success is the redirect target after a completed checkout.
func Success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Payment completed",
		"sessionId": c.Query("session_id"),
	})
}

// Cancel is the redirect target after an abandoned checkout.
func Cancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": "Payment cancelled",
	})
}
