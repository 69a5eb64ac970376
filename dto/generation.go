package dto

// GenerationRequest is the wire payload for the external text-generation
// service.
type GenerationRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type GenerationResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finishReason"`
}
