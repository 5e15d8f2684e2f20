package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ragkit/ragkit-go/ragkit"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The server is meant to sit behind a same-origin frontend or be used
	// by non-browser clients.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is one client message on an interactive session.
type wsRequest struct {
	Query string `json:"query"`
}

// wsResponse is one server message. Exactly one of Result and Error is set.
type wsResponse struct {
	Result *ragkit.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// handleWebSocket runs an interactive query session: the client sends one
// JSON query per message and receives one result or error per message.
// Queries on a single connection are processed sequentially.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Info("websocket session opened", "remote", conn.RemoteAddr().String())

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		resp := wsResponse{}
		result, err := s.service.Process(r.Context(), req.Query)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Result = result
		}

		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}
