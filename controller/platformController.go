package controllers

import (
	"net/http"

	"intechdl/models"
	util "intechdl/utils"
	ws "intechdl/websocket"

	"github.com/gin-gonic/gin"
)

// PlatformSupportHandler reports supported platforms, the accepted option
// vocabularies and the state of the output directory.
func PlatformSupportHandler(outputDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.PlatformSupport{
			SupportedPlatforms: util.SupportedPlatforms(),
			DownloadOptions: models.DownloadOptionsInfo{
				Resolutions: util.Resolutions(),
				Types:       []string{models.DownloadTypeVideo, models.DownloadTypePlaylist},
			},
			Notes: []string{
				"Auto-detection of platform supported",
				"Fallback resolution available",
				"Subtitles will be embedded when possible",
			},
			OutputDirectory: util.InspectDirectory(outputDir),
			ProgressSockets: ws.GetActiveConnectionsCount(),
		})
	}
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
