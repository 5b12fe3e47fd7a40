package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"intechdl/models"
	"intechdl/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// InfoHandler returns metadata for a URL without downloading it.
func InfoHandler(prober services.Prober) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.InfoRequest
		if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrMissingURL.Error()})
			return
		}

		info, err := services.GetVideoInfoService(c.Request.Context(), prober, req.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("[InfoController] probe failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to fetch video info",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"video_info": info})
	}
}
