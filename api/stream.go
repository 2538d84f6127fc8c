package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// streamMessage is one frame of the snapshot stream
type streamMessage struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

// handleStream pushes the session's snapshot over a websocket, first the
// current one and then every replacement until the client goes away
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.session(w, r)

	conn, err := s.upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := sess.Store().Subscribe()
	defer cancel()

	// reader: handles pongs and notices the client closing
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg streamMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("websocket write failed", zap.Error(err))
			return false
		}
		return true
	}

	if !send(streamMessage{Type: "snapshot", State: sess.Store().Snapshot()}) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap := <-updates:
			if !send(streamMessage{Type: "snapshot", State: snap}) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
