package controllers

import (
	"io"
	"net/http"

	"intechdl/sse"

	"github.com/gin-gonic/gin"
)

// SSEHandler streams progress for one request ID until the download reaches
// a terminal state or the client goes away.
func SSEHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	if requestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_id is required"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	client := sse.Register(requestID)
	defer sse.Unregister(requestID, client)

	// send headers right away so the client sees the stream open
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	done := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case msg, ok := <-client.Channel:
			if !ok {
				return false
			}
			c.SSEvent("progress", msg)
			return msg.Status != "completed" && msg.Status != "error"
		}
	})
}
