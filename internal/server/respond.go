package server

import (
	"net/http"
	"time"

	"github.com/AlanVogel/ChatAppSample/internal/auth"
	"github.com/gin-gonic/gin"
)

// The envelope is uniform across every endpoint:
// {status, code, server_time, message, ...operation fields}.

func respondOK(c *gin.Context, message string, fields gin.H) {
	body := gin.H{
		"status":      "OK",
		"code":        http.StatusOK,
		"server_time": time.Now().UTC().Format(time.RFC3339),
		"message":     message,
	}
	for k, v := range fields {
		body[k] = v
	}
	// A sliding-refresh token rides on success envelopes only, so a failed
	// call never advertises a token its caller cannot use.
	if _, exists := body["token"]; !exists {
		if fresh, ok := auth.RefreshedToken(c); ok {
			body["token"] = fresh
		}
	}
	c.JSON(http.StatusOK, body)
}

func respondErr(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":      "ERROR",
		"code":        code,
		"server_time": time.Now().UTC().Format(time.RFC3339),
		"message":     message,
	})
}
