package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"intechdl/models"
	"intechdl/services"
	"intechdl/sse"
	util "intechdl/utils"
	ws "intechdl/websocket"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PublishProgress fans a progress update out to SSE and WebSocket subscribers.
func PublishProgress(progress models.DownloadProgress) {
	sse.Send(progress)
	ws.SendProgress(progress)
}

// DownloadHandler handles POST /api/download/. The call blocks until the
// download (and a possible fallback attempt) has finished.
func DownloadHandler(dispatcher *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DownloadRequest

		if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		if strings.TrimSpace(req.URL) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrMissingURL.Error()})
			return
		}

		if req.RequestID == "" {
			req.RequestID = util.GenerateRequestID()
		}

		// The download keeps running if the client disconnects.
		ctx := context.WithoutCancel(c.Request.Context())

		outcome, err := dispatcher.Download(ctx, req, PublishProgress)
		if err != nil {
			respondDownloadError(c, err)
			return
		}

		c.JSON(http.StatusOK, outcome)
	}
}

func respondDownloadError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrMissingURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dlErr *services.DownloadError
	if !errors.As(err, &dlErr) {
		log.Error().Err(err).Msg("[DownloadController] unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Download failed",
			"details": err.Error(),
		})
		return
	}

	body := gin.H{
		"error":    dlErr.Message(),
		"platform": dlErr.Platform,
		"details":  dlErr.Details(),
	}
	if dlErr.Fallback != nil {
		body["primary_error"] = dlErr.Primary.Error()
		body["fallback_error"] = dlErr.Fallback.Error()
		body["fallback_resolution"] = dlErr.FallbackResolution
	}
	c.JSON(http.StatusInternalServerError, body)
}
