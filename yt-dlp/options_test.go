package ytdlp

import (
	"strings"
	"testing"
)

func TestOptionsArgs(t *testing.T) {
	opts := Options{
		Format:              "best[height<=720][ext=mp4]",
		OutputTemplate:      "/out/tiktok_%(title)s.%(ext)s",
		NoPlaylist:          true,
		MergeOutputFormat:   "mp4",
		RecodeVideo:         "mp4",
		EmbedSubtitles:      true,
		IgnoreErrors:        true,
		GeoBypass:           true,
		AudioMultistreams:   true,
		NoOverwrites:        true,
		ConcurrentFragments: 4,
		ExtractorRetries:    3,
		NoColor:             true,
		Headers:             map[string]string{"Referer": "https://x.com/", "Accept": "*/*"},
	}

	got := strings.Join(opts.Args(), " ")
	want := "-f best[height<=720][ext=mp4] -o /out/tiktok_%(title)s.%(ext)s --no-playlist " +
		"--merge-output-format mp4 --recode-video mp4 --embed-subs --ignore-errors --geo-bypass " +
		"--audio-multistreams --no-overwrites --concurrent-fragments 4 --extractor-retries 3 --no-colors " +
		"--add-header Accept:*/* --add-header Referer:https://x.com/"
	if got != want {
		t.Fatalf("Args()\n got: %s\nwant: %s", got, want)
	}
}

func TestOptionsArgs_Playlist(t *testing.T) {
	args := Options{NoPlaylist: false}.Args()
	if len(args) != 1 || args[0] != "--yes-playlist" {
		t.Fatalf("args = %v, want [--yes-playlist]", args)
	}
}

func TestWithFormatOnlyReplacesFormat(t *testing.T) {
	base := Options{
		Format:         "a",
		OutputTemplate: "tpl",
		NoPlaylist:     true,
		Headers:        map[string]string{"Referer": "r"},
	}
	next := base.WithFormat("b")

	if next.Format != "b" || base.Format != "a" {
		t.Fatalf("format not replaced on copy only: base=%q next=%q", base.Format, next.Format)
	}
	next.Format = base.Format
	if strings.Join(next.Args(), " ") != strings.Join(base.Args(), " ") {
		t.Fatal("fields other than Format changed")
	}

	next.Headers["Referer"] = "changed"
	if base.Headers["Referer"] != "r" {
		t.Fatal("headers map shared between copies")
	}
}
