package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/petal-labs/chatgate/gateway"
)

// maxBodyBytes bounds inbound request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDetail writes an error body in the {"detail": ...} shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeDispatchError maps dispatcher errors onto HTTP statuses.
func writeDispatchError(w http.ResponseWriter, err error, prefix string) {
	var reqErr *gateway.RequestError
	if errors.As(err, &reqErr) {
		writeDetail(w, http.StatusBadRequest, reqErr.Error())
		return
	}
	writeDetail(w, http.StatusInternalServerError, prefix+err.Error())
}

// decodeChatRequest reads a chat request body, applying the wire defaults:
// use_rag is on unless the body turns it off.
func decodeChatRequest(r io.Reader) (gateway.ChatRequest, error) {
	req := gateway.ChatRequest{UseRAG: true}
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// tokenEvent and errorEvent are the wire forms of a gateway.Frame.
type tokenEvent struct {
	Token    string `json:"token"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type errorEvent struct {
	Error string `json:"error"`
}

func frameEvent(f gateway.Frame) any {
	if f.IsError() {
		return errorEvent{Error: f.Error}
	}
	return tokenEvent{Token: f.Token, Provider: f.Provider, Model: f.Model}
}
