package server

import (
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/petal-labs/chatgate/gateway"
)

// handleChatWS upgrades to a WebSocket and answers one chat request.
//
// Flow:
//  1. Accept the upgrade.
//  2. Read one ChatRequest message.
//  3. Write each frame as a JSON message; setup failures become a single
//     error frame.
//  4. Close with a normal closure.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	req := gateway.ChatRequest{UseRAG: true}
	if err := wsjson.Read(r.Context(), conn, &req); err != nil {
		s.logger.Debug("ws read ended", "error", err)
		conn.Close(websocket.StatusUnsupportedData, "invalid chat request")
		return
	}

	// Nothing more is read; CloseRead cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	frames, err := s.chat.Stream(ctx, req)
	if err != nil {
		s.logger.Error("ws stream setup error", "provider", req.Provider, "error", err)
		msg := err.Error()
		var reqErr *gateway.RequestError
		if !errors.As(err, &reqErr) {
			msg = "Error processing chat request: " + msg
		}
		if err := wsjson.Write(ctx, conn, errorEvent{Error: msg}); err == nil {
			conn.Close(websocket.StatusNormalClosure, "")
		}
		return
	}

	for f := range frames {
		if err := wsjson.Write(ctx, conn, frameEvent(f)); err != nil {
			s.logger.Debug("ws write failed", "error", err)
			for range frames {
			}
			return
		}
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
