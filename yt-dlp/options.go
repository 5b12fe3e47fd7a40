package ytdlp

import (
	"sort"
	"strconv"
)

// Options is the bundle handed to yt-dlp for one download attempt.
type Options struct {
	Format            string
	OutputTemplate    string
	NoPlaylist        bool
	MergeOutputFormat string
	RecodeVideo       string
	EmbedSubtitles    bool
	IgnoreErrors      bool
	GeoBypass         bool
	AudioMultistreams bool
	NoOverwrites      bool
	Verbose           bool

	ConcurrentFragments int
	ExtractorRetries    int
	NoColor             bool
	Headers             map[string]string
}

// WithFormat returns a copy of o with only the format expression replaced.
func (o Options) WithFormat(format string) Options {
	o.Format = format
	if o.Headers != nil {
		headers := make(map[string]string, len(o.Headers))
		for k, v := range o.Headers {
			headers[k] = v
		}
		o.Headers = headers
	}
	return o
}

// Args renders the bundle as yt-dlp command line flags.
func (o Options) Args() []string {
	var args []string

	if o.Format != "" {
		args = append(args, "-f", o.Format)
	}
	if o.OutputTemplate != "" {
		args = append(args, "-o", o.OutputTemplate)
	}
	if o.NoPlaylist {
		args = append(args, "--no-playlist")
	} else {
		args = append(args, "--yes-playlist")
	}
	if o.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", o.MergeOutputFormat)
	}
	if o.RecodeVideo != "" {
		args = append(args, "--recode-video", o.RecodeVideo)
	}
	if o.EmbedSubtitles {
		args = append(args, "--embed-subs")
	}
	if o.IgnoreErrors {
		args = append(args, "--ignore-errors")
	}
	if o.GeoBypass {
		args = append(args, "--geo-bypass")
	}
	if o.AudioMultistreams {
		args = append(args, "--audio-multistreams")
	}
	if o.NoOverwrites {
		args = append(args, "--no-overwrites")
	}
	if o.Verbose {
		args = append(args, "--verbose")
	}
	if o.ConcurrentFragments > 0 {
		args = append(args, "--concurrent-fragments", strconv.Itoa(o.ConcurrentFragments))
	}
	if o.ExtractorRetries > 0 {
		args = append(args, "--extractor-retries", strconv.Itoa(o.ExtractorRetries))
	}
	if o.NoColor {
		args = append(args, "--no-colors")
	}

	// sorted so the command line is stable across runs
	keys := make([]string, 0, len(o.Headers))
	for k := range o.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--add-header", k+":"+o.Headers[k])
	}

	return args
}
