package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/epochml/epoch-ml/internal/llm"
)

type PlaygroundHandler struct {
	gateway llm.Gateway
}

func NewPlaygroundHandler(gw llm.Gateway) *PlaygroundHandler {
	return &PlaygroundHandler{gateway: gw}
}

type generateRequest struct {
	ModelID   string  `json:"modelId"`
	Prompt    string  `json:"prompt"`
	MaxTokens int     `json:"maxTokens"`
	Provider  string  `json:"provider,omitempty"`
	Temp      float64 `json:"temperature,omitempty"`
}

func (h *PlaygroundHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ModelID == "" || req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "modelId and prompt required"})
		return
	}

	resp, err := h.gateway.Generate(r.Context(), llm.GenerateRequest{
		Provider:    req.Provider,
		Model:       req.ModelID,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temp,
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"generated_text": resp.Text,
		"model":          resp.Model,
		"provider":       resp.Provider,
		"latency_ms":     resp.LatencyMs,
	})
}

func (h *PlaygroundHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": h.gateway.ListModels()})
}
