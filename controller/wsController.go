package controllers

import (
	"net/http"
	"time"

	ws "intechdl/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// WebSocketHandler registers a progress subscriber for request_id and keeps
// it alive with pings until the client disconnects.
func WebSocketHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	if requestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_id is required"})
		return
	}

	conn, err := ws.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Warn().Err(err).Msg("[WsController] upgrade failed")
		return
	}

	wsConn := ws.NewWSConnection(conn)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ws.RegisterWSConnection(requestID, wsConn)

	pingTicker := time.NewTicker(pingPeriod)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-pingTicker.C:
				if err := wsConn.WritePing(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	log.Info().Str("request_id", requestID).Msg("[WsController] connected")

	wsConn.Listen(requestID)

	close(done)
	pingTicker.Stop()
	ws.UnregisterWSConnection(requestID, wsConn)

	wsConn.Lock.Lock()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(2*time.Second),
	)
	wsConn.Lock.Unlock()
	wsConn.Close()

	log.Info().Str("request_id", requestID).Msg("[WsController] connection closed")
}
