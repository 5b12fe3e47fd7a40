package ytdlp

import "fmt"

// Info is the subset of the yt-dlp info JSON this service reads. Collection
// entries that failed extraction are decoded as nil.
type Info struct {
	ID          string  `json:"id"`
	Type        string  `json:"_type"`
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
	ViewCount   int64   `json:"view_count"`
	LikeCount   *int64  `json:"like_count"`
	Description *string `json:"description"`
	UploadDate  *string `json:"upload_date"`
	WebpageURL  string  `json:"webpage_url"`
	Extractor   string  `json:"extractor_key"`

	Height   int    `json:"height"`
	Format   string `json:"format"`
	Ext      string `json:"ext"`
	Filename string `json:"_filename"`

	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`

	Entries []*Info `json:"entries"`
}

// IsCollection reports whether the result describes a playlist.
func (i *Info) IsCollection() bool {
	return i.Type == "playlist" || i.Entries != nil
}

// FilePath returns the final path of the downloaded file, if known.
func (i *Info) FilePath() string {
	for _, d := range i.RequestedDownloads {
		if d.Filepath != "" {
			return d.Filepath
		}
	}
	return i.Filename
}

// Resolution formats the height as e.g. "720p", or "Unknown".
func (i *Info) Resolution() string {
	if i.Height <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%dp", i.Height)
}
