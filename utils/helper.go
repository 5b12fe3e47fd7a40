package util

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"intechdl/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EnsureDirectory creates dir (and parents) when it does not exist yet.
func EnsureDirectory(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", absPath, err)
	}
	return nil
}

// GenerateRequestID creates an ID for progress subscriptions.
func GenerateRequestID() string {
	return uuid.NewString()
}

// DeleteFilesOlderThan removes regular files in dir whose modification time
// is older than olderThan. It returns the number of removed files.
func DeleteFilesOlderThan(dir string, olderThan time.Duration) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	removed := 0

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}

		if now.Sub(info.ModTime()) > olderThan {
			path := filepath.Join(dir, file.Name())
			if err := os.Remove(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("[Cleanup] failed to delete file")
				continue
			}
			removed++
			log.Debug().Str("path", path).Msg("[Cleanup] deleted old file")
		}
	}

	return removed, nil
}

// ListDirectory returns the names of the regular files in dir.
func ListDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// InspectDirectory reports whether dir exists, accepts writes and how many
// files it holds.
func InspectDirectory(dir string) models.DirectoryStatus {
	status := models.DirectoryStatus{Path: dir}

	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			status.Error = err.Error()
		}
		return status
	}
	if !info.IsDir() {
		status.Error = "not a directory"
		return status
	}
	status.Exists = true

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		status.Error = err.Error()
	} else {
		status.Writable = true
		probe.Close()
		os.Remove(probe.Name())
	}

	if names, err := ListDirectory(dir); err == nil {
		status.FileCount = len(names)
	}
	return status
}

// DownloadSlots bounds the number of downloads running at once.
type DownloadSlots struct {
	ch chan struct{}
}

func NewDownloadSlots(limit int) *DownloadSlots {
	if limit < 1 {
		limit = 1
	}
	return &DownloadSlots{ch: make(chan struct{}, limit)}
}

// Block until slot is acquired
func (s *DownloadSlots) Acquire() {
	s.ch <- struct{}{}
}

func (s *DownloadSlots) Release() {
	select {
	case <-s.ch:
	default:
	}
}

// Full reports whether every slot is taken (non-blocking).
func (s *DownloadSlots) Full() bool {
	return len(s.ch) == cap(s.ch)
}

// Active returns the number of slots currently held.
func (s *DownloadSlots) Active() int {
	return len(s.ch)
}
