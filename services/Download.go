package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"intechdl/models"
	util "intechdl/utils"
	ytdlp "intechdl/yt-dlp"

	"github.com/rs/zerolog/log"
)

// ErrMissingURL is returned before any download is attempted.
var ErrMissingURL = errors.New("URL is required")

const failedEntryLabel = "Unknown (extraction failed)"

// Downloader performs one download attempt. ytdlp.Runner is the production
// implementation.
type Downloader interface {
	Download(ctx context.Context, url string, opts ytdlp.Options, onProgress ytdlp.ProgressFunc) (*ytdlp.Info, error)
}

// ProgressReporter receives side channel updates for a request.
type ProgressReporter func(progress models.DownloadProgress)

// DownloadError is returned when the primary attempt failed and either no
// fallback was eligible (Fallback is nil) or the fallback failed as well.
type DownloadError struct {
	Platform           models.Platform
	Primary            error
	Fallback           error
	FallbackResolution string
}

func (e *DownloadError) Error() string {
	if e.Fallback != nil {
		return fmt.Sprintf("%s: primary: %v; fallback (%s): %v", e.Message(), e.Primary, e.FallbackResolution, e.Fallback)
	}
	return fmt.Sprintf("%s: %v", e.Message(), e.Primary)
}

func (e *DownloadError) Unwrap() []error {
	if e.Fallback != nil {
		return []error{e.Primary, e.Fallback}
	}
	return []error{e.Primary}
}

// Message is the human readable summary, e.g. "Tiktok Download failed".
func (e *DownloadError) Message() string {
	return e.Platform.DisplayName() + " Download failed"
}

// Details describes the error of the last attempt made.
func (e *DownloadError) Details() string {
	if e.Fallback != nil {
		return e.Fallback.Error()
	}
	return e.Primary.Error()
}

// Dispatcher resolves the platform and format for a request, then makes the
// primary attempt and at most one fallback attempt.
type Dispatcher struct {
	downloader Downloader
	settings   OptionSettings
	slots      *util.DownloadSlots
}

func NewDispatcher(downloader Downloader, settings OptionSettings, slots *util.DownloadSlots) *Dispatcher {
	if slots == nil {
		slots = util.NewDownloadSlots(1)
	}
	return &Dispatcher{
		downloader: downloader,
		settings:   settings,
		slots:      slots,
	}
}

// OutputDir returns the directory downloads are written to.
func (d *Dispatcher) OutputDir() string {
	return d.settings.OutputDir
}

func (d *Dispatcher) Download(ctx context.Context, req models.DownloadRequest, report ProgressReporter) (*models.DownloadOutcome, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrMissingURL
	}
	req.ApplyDefaults()

	platform := util.ResolvePlatform(req.URL, req.Platform)
	format := util.SelectFormat(platform, req.Resolution)

	logger := log.With().
		Str("request_id", req.RequestID).
		Str("platform", string(platform)).
		Str("resolution", req.Resolution).
		Logger()

	if d.slots.Full() {
		d.notify(report, req.RequestID, "queued", "Too many downloads right now, waiting ...", 0)
	}
	d.slots.Acquire()
	defer d.slots.Release()

	fragments := util.ConcurrentFragments(d.slots.Active(), req.Resolution)
	opts := BuildOptions(d.settings, platform, format, req.DownloadType, fragments)

	logger.Info().Str("format", format).Str("download_type", req.DownloadType).Msg("[Dispatcher] primary attempt")
	d.notify(report, req.RequestID, "start", "Download started", 0)

	info, err := d.attempt(ctx, req.URL, opts, req.RequestID, report)
	if err == nil {
		outcome := summarize(platform, info, "")
		outcome.RequestID = req.RequestID
		d.finish(report, req.RequestID, outcome)
		return outcome, nil
	}
	logger.Warn().Err(err).Msg("[Dispatcher] primary attempt failed")

	if req.Resolution == req.FallbackResolution || !util.HasFormat(platform, req.FallbackResolution) {
		d.notify(report, req.RequestID, "error", "Download failed", 0)
		return nil, &DownloadError{Platform: platform, Primary: err}
	}

	fallbackFormat := util.SelectFormat(platform, req.FallbackResolution)
	logger.Info().Str("fallback_resolution", req.FallbackResolution).Str("format", fallbackFormat).Msg("[Dispatcher] fallback attempt")
	d.notify(report, req.RequestID, "fallback", "Retrying with "+req.FallbackResolution, 0)

	info, fallbackErr := d.attempt(ctx, req.URL, opts.WithFormat(fallbackFormat), req.RequestID, report)
	if fallbackErr != nil {
		logger.Error().Err(fallbackErr).AnErr("primary_error", err).Msg("[Dispatcher] fallback attempt failed")
		d.notify(report, req.RequestID, "error", "Download failed", 0)
		return nil, &DownloadError{
			Platform:           platform,
			Primary:            err,
			Fallback:           fallbackErr,
			FallbackResolution: req.FallbackResolution,
		}
	}

	outcome := summarize(platform, info, req.FallbackResolution)
	outcome.RequestID = req.RequestID
	d.finish(report, req.RequestID, outcome)
	return outcome, nil
}

func (d *Dispatcher) attempt(ctx context.Context, url string, opts ytdlp.Options, requestID string, report ProgressReporter) (*ytdlp.Info, error) {
	var onProgress ytdlp.ProgressFunc
	if report != nil && requestID != "" {
		onProgress = func(percent float64) {
			d.notify(report, requestID, "downloading", "", percent)
		}
	}

	info, err := d.downloader.Download(ctx, url, opts, onProgress)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.New("downloader returned no metadata")
	}
	return info, nil
}

func (d *Dispatcher) finish(report ProgressReporter, requestID string, outcome *models.DownloadOutcome) {
	d.notify(report, requestID, "completed", outcome.Message, 100)

	if names, err := util.ListDirectory(d.settings.OutputDir); err == nil {
		log.Debug().Str("dir", d.settings.OutputDir).Int("files", len(names)).Msg("[Dispatcher] output directory after download")
	}
}

func (d *Dispatcher) notify(report ProgressReporter, requestID, status, message string, percent float64) {
	if report == nil || requestID == "" {
		return
	}
	report(models.DownloadProgress{
		RequestID: requestID,
		Progress:  percent,
		Status:    status,
		Message:   message,
	})
}

// summarize shapes yt-dlp metadata into the response. A non-empty
// fallbackResolution marks the outcome as a fallback success.
func summarize(platform models.Platform, info *ytdlp.Info, fallbackResolution string) *models.DownloadOutcome {
	outcome := &models.DownloadOutcome{Platform: platform}

	if info.IsCollection() {
		outcome.Playlist = true
		outcome.Title = info.Title
		outcome.Successful = []models.ItemResult{}
		outcome.Failed = []string{}
		for _, entry := range info.Entries {
			if entry == nil {
				outcome.Failed = append(outcome.Failed, failedEntryLabel)
				continue
			}
			outcome.Successful = append(outcome.Successful, itemResult(entry))
		}
		outcome.Message = fmt.Sprintf("%s Playlist downloaded successfully (%d videos)", platform.DisplayName(), len(outcome.Successful))
	} else {
		item := itemResult(info)
		outcome.Title = item.Title
		outcome.Resolution = item.Resolution
		outcome.Format = item.Format
		outcome.FilePath = item.FilePath
		outcome.Message = platform.DisplayName() + " Download successful"
	}

	if fallbackResolution != "" {
		outcome.Fallback = true
		outcome.FallbackResolution = fallbackResolution
		outcome.Message = fmt.Sprintf("%s Download successful with fallback resolution (%s)", platform.DisplayName(), fallbackResolution)
	}

	return outcome
}

func itemResult(info *ytdlp.Info) models.ItemResult {
	title := info.Title
	if title == "" {
		title = "Unknown"
	}
	format := info.Format
	if format == "" {
		format = "Unknown"
	}
	return models.ItemResult{
		Title:      title,
		Resolution: info.Resolution(),
		Format:     format,
		FilePath:   info.FilePath(),
	}
}
