// Package ollama provides a chat backend for a self-hosted Ollama server.
//
// No credential is required. The server address comes from configuration,
// then OLLAMA_BASE_URL, then DefaultLocalURL:
//
//	provider := ollama.New(
//		ollama.WithBaseURL("http://gpu-box:11434"),
//	)
//
// Streaming uses Ollama's newline-delimited JSON format: every line carries
// the next slice of the answer and the last one has "done": true.
//
// Availability is probed with GET /api/tags, which lists local models and
// is cheap enough to call on every health check.
package ollama
