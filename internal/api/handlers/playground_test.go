package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/epochml/epoch-ml/internal/llm"
)

type fakeGateway struct {
	resp *llm.GenerateResponse
	err  error
}

func (f *fakeGateway) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return f.resp, f.err
}
func (f *fakeGateway) Provider(name string) (llm.Provider, error) { return nil, errors.New("none") }
func (f *fakeGateway) ListModels() []llm.ModelInfo {
	return []llm.ModelInfo{{Provider: "huggingface", Model: "gpt2"}}
}

func TestGenerateRequiresModelAndPrompt(t *testing.T) {
	h := NewPlaygroundHandler(&fakeGateway{})

	for _, body := range []string{
		`{}`,
		`{"modelId":"gpt2"}`,
		`{"prompt":"hello"}`,
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/playground/generate", strings.NewReader(body))
		h.Generate(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestGenerateReturnsText(t *testing.T) {
	h := NewPlaygroundHandler(&fakeGateway{
		resp: &llm.GenerateResponse{Provider: "huggingface", Model: "gpt2", Text: "once upon a time"},
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/playground/generate", strings.NewReader(`{"modelId":"gpt2","prompt":"story"}`))
	h.Generate(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "once upon a time") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	h := NewPlaygroundHandler(&fakeGateway{err: errors.New("model overloaded")})

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/playground/generate", strings.NewReader(`{"modelId":"gpt2","prompt":"story"}`))
	h.Generate(w, r)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestPlaygroundModels(t *testing.T) {
	h := NewPlaygroundHandler(&fakeGateway{})
	w := httptest.NewRecorder()
	h.Models(w, httptest.NewRequest("GET", "/api/playground/models", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "gpt2") {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}
