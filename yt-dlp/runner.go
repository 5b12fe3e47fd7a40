package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/alessio/shellescape"
	"github.com/rs/zerolog/log"
)

// maxLineSize bounds one line of yt-dlp output, including the metadata document.
var maxLineSize = 64 << 20

// This regex will find the percentage in "[download]  10.5% of..."
var progressRegex = regexp.MustCompile(`\[download\]\s+(\d+\.?\d*)%`)

// ProgressFunc receives download progress in percent (0-100).
type ProgressFunc func(percent float64)

// Runner invokes the yt-dlp executable.
type Runner struct {
	Binary string
}

func NewRunner(binary string) *Runner {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Runner{Binary: binary}
}

// Download runs one download with opts and returns the metadata yt-dlp
// prints once it is done. A run that prints metadata counts as a success
// even when yt-dlp exits non-zero, since --ignore-errors reports skipped
// collection entries through the exit status.
func (r *Runner) Download(ctx context.Context, url string, opts Options, onProgress ProgressFunc) (*Info, error) {
	args := append(opts.Args(), "--dump-single-json", "--no-simulate", "--newline", "--progress", "--", url)

	log.Debug().Str("cmd", shellescape.QuoteCommand(append([]string{r.Binary}, args...))).Msg("[Runner] starting yt-dlp")

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("yt-dlp start: %w", err)
	}

	var (
		wg       sync.WaitGroup
		document []byte
		lastErr  string
		readErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		readErr = scanLines(stdout, "stdout", func(line string) {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "{") || trimmed == "null" {
				document = []byte(trimmed)
				return
			}
			reportProgress(line, onProgress)
		})
	}()

	_ = scanLines(stderr, "stderr", func(line string) {
		if strings.HasPrefix(line, "ERROR:") {
			lastErr = strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
		if !reportProgress(line, onProgress) {
			log.Trace().Str("line", line).Msg("[Runner] yt-dlp")
		}
	})
	wg.Wait()

	waitErr := cmd.Wait()

	if len(document) == 0 && readErr != nil {
		return nil, fmt.Errorf("yt-dlp metadata unreadable: %w", readErr)
	}
	if len(document) == 0 || string(document) == "null" {
		return nil, describeFailure(waitErr, lastErr)
	}

	var info Info
	if err := json.Unmarshal(document, &info); err != nil {
		return nil, fmt.Errorf("yt-dlp parse error: %w", err)
	}

	if waitErr != nil {
		log.Warn().Err(waitErr).Str("last_error", lastErr).Msg("[Runner] yt-dlp exited with errors but produced metadata")
	}

	return &info, nil
}

// Probe fetches metadata for a single item without downloading it.
func (r *Runner) Probe(ctx context.Context, url string) (*Info, error) {
	args := []string{"-J", "--no-playlist", "--no-warnings", "--", url}

	log.Debug().Str("cmd", shellescape.QuoteCommand(append([]string{r.Binary}, args...))).Msg("[Runner] probing")

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, describeFailure(err, lastErrorLine(stderr.String()))
	}

	var info Info
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("yt-dlp parse error: %w", err)
	}
	return &info, nil
}

// scanLines feeds each line of r to handle and returns the scanner error,
// if any. The rest of r is always drained.
func scanLines(r io.Reader, stream string, handle func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineSize)), maxLineSize)
	for scanner.Scan() {
		handle(scanner.Text())
	}
	err := scanner.Err()
	if err != nil {
		log.Error().Err(err).Str("stream", stream).Int("max_line_size", maxLineSize).Msg("[Runner] stopped reading yt-dlp output")
	}
	// drain whatever is left so the process never blocks on a full pipe
	_, _ = io.Copy(io.Discard, r)
	return err
}

func reportProgress(line string, onProgress ProgressFunc) bool {
	matches := progressRegex.FindStringSubmatch(line)
	if len(matches) < 2 {
		return false
	}
	if onProgress != nil {
		if percent, err := strconv.ParseFloat(matches[1], 64); err == nil {
			onProgress(percent)
		}
	}
	return true
}

func lastErrorLine(output string) string {
	last := ""
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "ERROR:") {
			last = strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	return last
}

func describeFailure(waitErr error, lastErr string) error {
	switch {
	case lastErr != "" && waitErr != nil:
		return fmt.Errorf("%s: %w", lastErr, waitErr)
	case lastErr != "":
		return errors.New(lastErr)
	case waitErr != nil:
		return fmt.Errorf("yt-dlp exec error: %w", waitErr)
	default:
		return errors.New("yt-dlp returned no metadata")
	}
}
