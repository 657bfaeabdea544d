package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleChat handles POST /chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r.Body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.chat.Chat(r.Context(), req)
	if err != nil {
		s.logger.Error("chat error", "provider", req.Provider, "error", err)
		writeDispatchError(w, err, "Error processing chat request: ")
		return
	}

	s.logger.Info("chat response", "provider", res.Provider, "response_length", len(res.Response))
	writeJSON(w, http.StatusOK, res)
}

// handleChatStream handles POST /chat/stream. Each fragment is one SSE data
// event; a failure after the first fragment ends the stream with an error
// event.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r.Body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	frames, err := s.chat.Stream(r.Context(), req)
	if err != nil {
		s.logger.Error("stream setup error", "provider", req.Provider, "error", err)
		writeDispatchError(w, err, "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for f := range frames {
		if f.IsError() {
			s.logger.Error("stream error", "provider", req.Provider, "error", f.Error)
		}
		if err := sendSSE(w, flusher, frameEvent(f)); err != nil {
			s.logger.Debug("stream write failed", "error", err)
			// Drain so the dispatcher goroutine observes cancellation.
			for range frames {
			}
			return
		}
	}
}

// sendSSE writes one data event and flushes it.
func sendSSE(w http.ResponseWriter, flusher http.Flusher, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
