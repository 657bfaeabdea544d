package gemini

import (
	"encoding/json"
	"maps"

	"github.com/petal-labs/chatgate/core"
)

// requestFields are the top-level fields of a generateContent request that
// params may set directly. Any other param is a generation setting and is
// placed under generationConfig.
var requestFields = map[string]bool{
	"generationConfig":   true,
	"safetySettings":     true,
	"systemInstruction":  true,
	"system_instruction": true,
	"tools":              true,
	"toolConfig":         true,
	"cachedContent":      true,
}

// buildBody converts a core request into a generateContent body. The model
// travels in the URL, so only "contents" is owned by the adapter.
func buildBody(req *core.ChatRequest) ([]byte, error) {
	contents := make([]geminiContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := "user"
		if m.Role == core.RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	body := map[string]any{"contents": contents}

	genCfg := map[string]any{}
	if m, ok := req.Params["generationConfig"].(map[string]any); ok {
		maps.Copy(genCfg, m)
	}
	for k, v := range req.Params {
		switch {
		case k == "contents" || k == "generationConfig":
		case requestFields[k]:
			body[k] = v
		default:
			genCfg[k] = v
		}
	}
	if len(genCfg) > 0 {
		body["generationConfig"] = genCfg
	} else if v, ok := req.Params["generationConfig"]; ok {
		body["generationConfig"] = v
	}

	return json.Marshal(body)
}

// mapResponse converts a Gemini response to a ChatResponse.
func mapResponse(resp *geminiResponse, model string) *core.ChatResponse {
	result := &core.ChatResponse{
		ID:     resp.ResponseID,
		Model:  model,
		Output: resp.text(),
	}
	if resp.ModelVersion != "" {
		result.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		result.Usage = core.TokenUsage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return result
}
