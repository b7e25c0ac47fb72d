package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HuggingFaceProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHuggingFaceProvider(baseURL, apiKey string) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (p *HuggingFaceProvider) Name() string { return "huggingface" }

func (p *HuggingFaceProvider) Models() []string {
	return []string{"gpt2", "distilgpt2", "bigscience/bloom-560m", "google/flan-t5-base"}
}

type hfGenerateReq struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGenerateResp struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	body, err := json.Marshal(hfGenerateReq{
		Inputs: req.Prompt,
		Parameters: hfParameters{
			MaxNewTokens:   maxTokens,
			Temperature:    req.Temperature,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/models/%s/generate?wait_for_model=true", p.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e hfError
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("huggingface (%d): %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("huggingface returned %d", resp.StatusCode)
	}

	// The inference API returns a one-element array of generations.
	var out []hfGenerateResp
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	text := ""
	if len(out) > 0 {
		text = out[0].GeneratedText
	}

	return &GenerateResponse{
		Provider:  "huggingface",
		Model:     req.Model,
		Text:      text,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
