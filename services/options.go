package services

import (
	"path/filepath"

	"intechdl/models"
	util "intechdl/utils"
	ytdlp "intechdl/yt-dlp"
)

// platformOverrides holds the extra yt-dlp settings applied per platform.
type platformOverrides struct {
	ExtractorRetries int
	NoColor          bool
	Headers          map[string]string
}

var platformOverrideTable = map[models.Platform]platformOverrides{
	models.PlatformTikTok: {
		ExtractorRetries: 3,
		NoColor:          true,
	},
	models.PlatformTwitter: {
		Headers: map[string]string{"Referer": "https://x.com/"},
	},
	models.PlatformInstagram: {
		NoColor: true,
	},
}

// OptionSettings are the process-wide knobs that feed every option bundle.
type OptionSettings struct {
	OutputDir string
	Verbose   bool
}

// BuildOptions assembles the option bundle for one request. The format
// expression is the only field that differs between the primary and the
// fallback attempt.
func BuildOptions(settings OptionSettings, platform models.Platform, format, downloadType string, fragments int) ytdlp.Options {
	opts := ytdlp.Options{
		Format:              format,
		OutputTemplate:      OutputTemplate(settings.OutputDir, platform),
		NoPlaylist:          downloadType != models.DownloadTypePlaylist,
		MergeOutputFormat:   "mp4",
		RecodeVideo:         "mp4",
		EmbedSubtitles:      true,
		IgnoreErrors:        true,
		GeoBypass:           true,
		AudioMultistreams:   true,
		NoOverwrites:        true,
		Verbose:             settings.Verbose,
		ConcurrentFragments: fragments,
	}

	if extra, ok := platformOverrideTable[platform]; ok {
		opts.ExtractorRetries = extra.ExtractorRetries
		opts.NoColor = extra.NoColor
		if len(extra.Headers) > 0 {
			opts.Headers = make(map[string]string, len(extra.Headers))
			for k, v := range extra.Headers {
				opts.Headers[k] = v
			}
		}
	}

	return opts
}

// OutputTemplate names files "<platform>_<title>.<ext>" inside dir. Only
// known platform names become the prefix, so the template stays in dir.
func OutputTemplate(dir string, platform models.Platform) string {
	if !util.IsKnownPlatform(platform) {
		platform = models.DefaultPlatform
	}
	return filepath.Join(dir, string(platform)+"_%(title)s.%(ext)s")
}
