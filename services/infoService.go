package services

import (
	"context"
	"fmt"

	"intechdl/models"
	util "intechdl/utils"
	ytdlp "intechdl/yt-dlp"
)

// Prober fetches metadata without downloading.
type Prober interface {
	Probe(ctx context.Context, url string) (*ytdlp.Info, error)
}

func GetVideoInfoService(ctx context.Context, prober Prober, videoURL string) (*models.VideoInfo, error) {
	if videoURL == "" {
		return nil, ErrMissingURL
	}

	info, err := prober.Probe(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp probe failed: %w", err)
	}

	page := info.WebpageURL
	if page == "" {
		page = videoURL
	}

	return &models.VideoInfo{
		Title:       info.Title,
		Uploader:    info.Uploader,
		Thumbnail:   info.Thumbnail,
		Views:       info.ViewCount,
		Duration:    info.Duration,
		Platform:    string(util.ResolvePlatform(videoURL, models.PlatformAuto)),
		Extractor:   info.Extractor,
		Description: info.Description,
		UploadDate:  info.UploadDate,
		LikeCount:   info.LikeCount,
		VideoPage:   page,
	}, nil
}
