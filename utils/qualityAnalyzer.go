package util

import "intechdl/models"

// platformFormatTable maps a platform to its resolution label → yt-dlp
// format expression table. Never mutated at runtime.
var platformFormatTable = map[models.Platform]map[string]string{
	models.PlatformYouTube: {
		"best":  "bestvideo+bestaudio/best",
		"1080p": "bestvideo[height<=1080]+bestaudio/best[ext=mp4]/best",
		"720p":  "bestvideo[height<=720]+bestaudio/best[ext=mp4]/best",
		"480p":  "bestvideo[height<=480]+bestaudio/best[ext=mp4]/best",
		"360p":  "bestvideo[height<=360]+bestaudio/best[ext=mp4]/best",
	},
	models.PlatformTikTok: {
		"best":  "best[ext=mp4]",
		"1080p": "best[height<=1080][ext=mp4]",
		"720p":  "best[height<=720][ext=mp4]",
		"480p":  "best[height<=480][ext=mp4]",
	},
	models.PlatformTwitter: {
		"best":  "best[ext=mp4]",
		"1080p": "best[height<=1080][ext=mp4]",
		"720p":  "best[height<=720][ext=mp4]",
	},
	models.PlatformInstagram: {
		"best":  "best[ext=mp4]",
		"1080p": "best[height<=1080][ext=mp4]",
		"720p":  "best[height<=720][ext=mp4]",
	},
}

const defaultResolutionLabel = "1080p"

var resolutionLabels = []string{"360p", "480p", "720p", "1080p", "best"}

func formatsFor(platform models.Platform) map[string]string {
	if formats, ok := platformFormatTable[platform]; ok {
		return formats
	}
	return platformFormatTable[models.DefaultPlatform]
}

// SelectFormat returns the format expression for platform and label. Unknown
// platforms use the default platform's table and unknown labels use the
// table's 1080p entry, so it never fails.
func SelectFormat(platform models.Platform, label string) string {
	formats := formatsFor(platform)
	if selector, ok := formats[label]; ok {
		return selector
	}
	return formats[defaultResolutionLabel]
}

// HasFormat reports whether label has its own entry in the platform's table.
func HasFormat(platform models.Platform, label string) bool {
	_, ok := formatsFor(platform)[label]
	return ok
}

// Resolutions returns the resolution vocabulary accepted by the API.
func Resolutions() []string {
	return append([]string(nil), resolutionLabels...)
}
