package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	ytdlp "intechdl/yt-dlp"

	"github.com/gin-gonic/gin"
)

type stubProber struct {
	info *ytdlp.Info
	err  error
}

func (s stubProber) Probe(context.Context, string) (*ytdlp.Info, error) {
	return s.info, s.err
}

func TestInfoHandler(t *testing.T) {
	r := gin.New()
	r.POST("/api/info", InfoHandler(stubProber{info: &ytdlp.Info{Title: "clip"}}))

	w := postJSON(r, "/api/info", `{"url":"https://youtube.com/watch?v=x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	info, _ := decodeBody(t, w)["video_info"].(map[string]any)
	if info["title"] != "clip" || info["platform"] != "youtube" {
		t.Fatalf("unexpected info: %v", info)
	}
}

func TestInfoHandler_Errors(t *testing.T) {
	r := gin.New()
	r.POST("/api/info", InfoHandler(stubProber{err: errors.New("boom")}))

	if w := postJSON(r, "/api/info", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing url: status = %d", w.Code)
	}
	if w := postJSON(r, "/api/info", `{"url":"https://example.com"}`); w.Code != http.StatusInternalServerError {
		t.Fatalf("probe failure: status = %d", w.Code)
	}
}
