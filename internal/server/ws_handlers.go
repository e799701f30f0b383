package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// local monitor; allow all
		return true
	},
}

// handleWSReadings sends the recent history as a "history" message, then one
// "reading" message per new reading.
func (s *Server) handleWSReadings(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("ws upgrade", zap.Error(err))
		return
	}
	client := s.hub.Add(conn)
	if err := client.Send(WSMessage{Type: "history", Data: s.store.Recent(0)}); err != nil {
		s.hub.Remove(client)
		return
	}

	// Keep reading until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.Remove(client)
			return
		}
	}
}
