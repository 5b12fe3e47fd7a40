package ws

import (
	"net/http"
	"sync"
	"time"

	"intechdl/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSConnection struct {
	Conn *websocket.Conn
	Lock sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{Conn: conn}
}

var (
	connections = make(map[string]*WSConnection)
	connMutex   sync.RWMutex
)

func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

func RegisterWSConnection(requestID string, wsConn *WSConnection) {
	connMutex.Lock()
	defer connMutex.Unlock()
	connections[requestID] = wsConn
	log.Debug().Str("request_id", requestID).Msg("[WebSocket] registered connection")
}

func GetWSConnection(requestID string) *WSConnection {
	connMutex.RLock()
	defer connMutex.RUnlock()
	return connections[requestID]
}

// UnregisterWSConnection drops the registration if it still points at wsConn.
func UnregisterWSConnection(requestID string, wsConn *WSConnection) {
	connMutex.Lock()
	defer connMutex.Unlock()
	if current, ok := connections[requestID]; ok && current == wsConn {
		delete(connections, requestID)
		log.Debug().Str("request_id", requestID).Msg("[WebSocket] unregistered connection")
	}
}

// GetActiveConnectionsCount returns the number of currently registered connections.
func GetActiveConnectionsCount() int {
	connMutex.RLock()
	defer connMutex.RUnlock()
	return len(connections)
}

func (ws *WSConnection) Close() {
	ws.Lock.Lock()
	defer ws.Lock.Unlock()
	if ws.Conn != nil {
		_ = ws.Conn.Close()
	}
}

func (ws *WSConnection) SendJSON(data interface{}) error {
	ws.Lock.Lock()
	defer ws.Lock.Unlock()

	_ = ws.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.Conn.WriteJSON(data)
}

// WritePing sends a ping control frame.
func (ws *WSConnection) WritePing() error {
	ws.Lock.Lock()
	defer ws.Lock.Unlock()
	return ws.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

// SendProgress forwards progress to the connection registered for its
// request ID, if any.
func SendProgress(progress models.DownloadProgress) {
	ws := GetWSConnection(progress.RequestID)
	if ws == nil {
		return
	}
	if err := ws.SendJSON(progress); err != nil {
		log.Warn().Err(err).Str("request_id", progress.RequestID).Msg("[WebSocket] failed to send progress")
	}
}

// Listen reads until the client goes away. Incoming messages are ignored.
func (ws *WSConnection) Listen(requestID string) {
	for {
		if _, _, err := ws.Conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Str("request_id", requestID).Msg("[WebSocket] closed by client")
			} else {
				log.Debug().Err(err).Str("request_id", requestID).Msg("[WebSocket] read error")
			}
			return
		}
	}
}
