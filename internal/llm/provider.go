package llm

import "context"

// Provider abstracts a hosted text-generation backend (Hugging Face,
// OpenAI, Anthropic).
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Name() string
	Models() []string
}

// Gateway routes generation requests to a provider with retry and fallback.
type Gateway interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Provider(name string) (Provider, error)
	ListModels() []ModelInfo
}

// GenerateRequest is a single playground prompt.
type GenerateRequest struct {
	Provider    string  `json:"provider,omitempty"`
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// GenerateResponse is the produced text plus usage metadata.
type GenerateResponse struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Text         string `json:"generated_text"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	LatencyMs    int64  `json:"latency_ms"`
}

// ModelInfo describes a model reachable through a configured provider.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
