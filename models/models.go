package models

// Platform identifies the source site a URL belongs to.
type Platform string

const (
	PlatformAuto      Platform = "auto"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"

	// DefaultPlatform is used when auto detection finds no match.
	DefaultPlatform = PlatformYouTube
)

// DisplayName returns the platform with its first letter upper-cased,
// e.g. "Tiktok". Used in response messages.
func (p Platform) DisplayName() string {
	if p == "" {
		return ""
	}
	b := []byte(p)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

const (
	DownloadTypeVideo    = "video"
	DownloadTypePlaylist = "playlist"

	DefaultResolution         = "1080p"
	DefaultFallbackResolution = "720p"
)

// incoming request from the client
type DownloadRequest struct {
	URL                string   `json:"url" form:"url"`
	Resolution         string   `json:"resolution" form:"resolution"`
	DownloadType       string   `json:"download_type" form:"download_type"`
	FallbackResolution string   `json:"fallback_resolution" form:"fallback_resolution"`
	Platform           Platform `json:"platform" form:"platform"`
	RequestID          string   `json:"request_id" form:"request_id"`
}

// ApplyDefaults fills every optional field left empty by the client.
func (r *DownloadRequest) ApplyDefaults() {
	if r.Resolution == "" {
		r.Resolution = DefaultResolution
	}
	if r.DownloadType == "" {
		r.DownloadType = DownloadTypeVideo
	}
	if r.FallbackResolution == "" {
		r.FallbackResolution = DefaultFallbackResolution
	}
	if r.Platform == "" {
		r.Platform = PlatformAuto
	}
}

type InfoRequest struct {
	URL string `json:"url" form:"url"`
}

// ItemResult describes one downloaded item.
type ItemResult struct {
	Title      string `json:"title"`
	Resolution string `json:"resolution"`
	Format     string `json:"format"`
	FilePath   string `json:"file_path,omitempty"`
}

// DownloadOutcome is returned to the caller after a successful download.
// Collections fill Successful/Failed, single items fill the item fields.
type DownloadOutcome struct {
	Message            string       `json:"message"`
	Platform           Platform     `json:"platform"`
	RequestID          string       `json:"request_id,omitempty"`
	Title              string       `json:"title,omitempty"`
	Resolution         string       `json:"resolution,omitempty"`
	Format             string       `json:"format,omitempty"`
	FilePath           string       `json:"file_path,omitempty"`
	Playlist           bool         `json:"playlist,omitempty"`
	Successful         []ItemResult `json:"successful,omitempty"`
	Failed             []string     `json:"failed,omitempty"`
	Fallback           bool         `json:"fallback,omitempty"`
	FallbackResolution string       `json:"fallback_resolution,omitempty"`
}

// DownloadProgress is sent to progress subscribers during a download.
type DownloadProgress struct {
	RequestID string  `json:"request_id"`
	Progress  float64 `json:"progress"`          // 0 - 100
	Status    string  `json:"status"`            // e.g. "start", "downloading", "fallback", "completed", "error"
	Message   string  `json:"message,omitempty"` // extra info or errors
}

type VideoInfo struct {
	Title       string  `json:"title"`
	Thumbnail   string  `json:"thumbnail"`
	Uploader    string  `json:"uploader"`
	Views       int64   `json:"views"`
	Duration    float64 `json:"duration"`
	Platform    string  `json:"platform"`
	Extractor   string  `json:"extractor,omitempty"`
	Description *string `json:"description,omitempty"`
	UploadDate  *string `json:"upload_date,omitempty"`
	LikeCount   *int64  `json:"likes,omitempty"`
	VideoPage   string  `json:"url"`
}

// DirectoryStatus reports the state of the output directory.
type DirectoryStatus struct {
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	Writable  bool   `json:"writable"`
	FileCount int    `json:"file_count"`
	Error     string `json:"error,omitempty"`
}

type DownloadOptionsInfo struct {
	Resolutions []string `json:"resolutions"`
	Types       []string `json:"types"`
}

// PlatformSupport is the diagnostic payload of the platforms endpoint.
type PlatformSupport struct {
	SupportedPlatforms []string            `json:"supported_platforms"`
	DownloadOptions    DownloadOptionsInfo `json:"download_options"`
	Notes              []string            `json:"notes"`
	OutputDirectory    DirectoryStatus     `json:"output_directory"`
	ProgressSockets    int                 `json:"active_progress_sockets"`
}
