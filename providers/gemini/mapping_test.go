package gemini

import (
	"encoding/json"
	"testing"

	"github.com/petal-labs/chatgate/core"
)

func decodeBody(t *testing.T, req *core.ChatRequest) map[string]any {
	t.Helper()
	body, err := buildBody(req)
	if err != nil {
		t.Fatalf("buildBody() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return got
}

func TestBuildBodyContents(t *testing.T) {
	got := decodeBody(t, core.UserRequest("", "Hello", nil))

	contents := got["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents = %v", contents)
	}
	first := contents[0].(map[string]any)
	if first["role"] != "user" {
		t.Errorf("role = %v, want user", first["role"])
	}
	parts := first["parts"].([]any)
	if parts[0].(map[string]any)["text"] != "Hello" {
		t.Errorf("parts = %v", parts)
	}
	if _, ok := got["generationConfig"]; ok {
		t.Error("generationConfig should be omitted without params")
	}
}

func TestBuildBodyParams(t *testing.T) {
	got := decodeBody(t, core.UserRequest("", "Hello", core.Params{
		"temperature":      0.3,
		"maxOutputTokens":  100,
		"generationConfig": map[string]any{"topK": 4},
		"safetySettings":   []any{map[string]any{"category": "HARM_CATEGORY_HARASSMENT", "threshold": "BLOCK_NONE"}},
		"contents":         "ignored",
	}))

	gen := got["generationConfig"].(map[string]any)
	if gen["temperature"] != 0.3 {
		t.Errorf("temperature = %v", gen["temperature"])
	}
	if gen["maxOutputTokens"] != float64(100) {
		t.Errorf("maxOutputTokens = %v", gen["maxOutputTokens"])
	}
	if gen["topK"] != float64(4) {
		t.Errorf("topK = %v", gen["topK"])
	}
	if _, ok := got["safetySettings"].([]any); !ok {
		t.Errorf("safetySettings = %v, want top-level list", got["safetySettings"])
	}
	if _, ok := got["contents"].([]any); !ok {
		t.Errorf("contents overridden by params: %v", got["contents"])
	}
	if _, ok := got["temperature"]; ok {
		t.Error("temperature must not be top-level")
	}
}

func TestMapResponseSkipsThoughts(t *testing.T) {
	resp := &geminiResponse{
		Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{
				{Text: "thinking...", Thought: true},
				{Text: "Answer"},
			}},
		}},
		UsageMetadata: &geminiUsage{PromptTokenCount: 3, CandidatesTokenCount: 1, TotalTokenCount: 4},
	}

	got := mapResponse(resp, "gemini-2.5-flash")
	if got.Output != "Answer" {
		t.Errorf("Output = %q, want Answer", got.Output)
	}
	if got.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.Usage.TotalTokens != 4 {
		t.Errorf("TotalTokens = %d", got.Usage.TotalTokens)
	}
}
