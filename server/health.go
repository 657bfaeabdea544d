package server

import (
	"net/http"
)

// HealthResponse is the body of GET /health. The service is healthy when at
// least one provider answers its availability probe.
type HealthResponse struct {
	Status    string          `json:"status"`
	Providers map[string]bool `json:"providers"`
	Retrieval *bool           `json:"retrieval,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.providers.HealthAll(r.Context())

	resp := HealthResponse{Status: "unhealthy", Providers: status}
	for _, ok := range status {
		if ok {
			resp.Status = "healthy"
			break
		}
	}
	if s.retrieval != nil {
		ok := s.retrieval.Health(r.Context())
		resp.Retrieval = &ok
	}

	s.logger.Info("health check", "status", resp.Status, "providers", status)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	names := s.providers.List()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": names,
		"default":   s.chat.DefaultProvider(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "chatgate",
		"version": s.version,
		"endpoints": map[string]string{
			"/chat":        "POST - Send a message to the chatbot",
			"/chat/stream": "POST - Stream a response as server-sent events",
			"/chat/ws":     "GET - Stream a response over a WebSocket",
			"/health":      "GET - Check service health",
			"/providers":   "GET - List compiled-in providers",
		},
	})
}
