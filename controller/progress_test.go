package controllers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intechdl/models"
	"intechdl/sse"
	ws "intechdl/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketHandler_DeliversProgress(t *testing.T) {
	r := gin.New()
	r.GET("/ws/:request_id", WebSocketHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/req-ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return ws.GetWSConnection("req-ws") != nil })

	platforms := gin.New()
	platforms.GET("/api/platforms", PlatformSupportHandler(t.TempDir()))
	w := httptest.NewRecorder()
	platforms.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/platforms", nil))
	var support models.PlatformSupport
	if err := json.Unmarshal(w.Body.Bytes(), &support); err != nil {
		t.Fatal(err)
	}
	if support.ProgressSockets < 1 {
		t.Fatalf("active_progress_sockets = %d with one socket open", support.ProgressSockets)
	}

	PublishProgress(models.DownloadProgress{RequestID: "req-ws", Status: "downloading", Progress: 12.5})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.DownloadProgress
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Status != "downloading" || got.Progress != 12.5 {
		t.Fatalf("got %+v", got)
	}

	conn.Close()
	waitFor(t, func() bool { return ws.GetWSConnection("req-ws") == nil })
}

func TestSSEHandler_StreamsUntilTerminal(t *testing.T) {
	r := gin.New()
	r.GET("/api/progress/:request_id", SSEHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/progress/req-sse")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	waitFor(t, func() bool { return sse.Get("req-sse") != nil })

	PublishProgress(models.DownloadProgress{RequestID: "req-sse", Status: "start"})
	PublishProgress(models.DownloadProgress{RequestID: "req-sse", Status: "completed", Progress: 100})

	var events []models.DownloadProgress
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var p models.DownloadProgress
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &p); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		events = append(events, p)
	}

	if len(events) != 2 || events[0].Status != "start" || events[1].Status != "completed" {
		t.Fatalf("events = %+v", events)
	}
	waitFor(t, func() bool { return sse.Get("req-sse") == nil })
}
