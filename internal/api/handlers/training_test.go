package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/models"
	"github.com/epochml/epoch-ml/internal/training"
	"github.com/epochml/epoch-ml/internal/user"
)

type fakeCatalog struct {
	configs map[string]*models.ModelConfig
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (*models.ModelConfig, error) {
	if m, ok := f.configs[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("not found")
}

type fakeLedger struct {
	balance int
}

func (f *fakeLedger) Spend(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	if f.balance < amount {
		return f.balance, fmt.Errorf("%w: requires %d, have %d", user.ErrInsufficientCredits, amount, f.balance)
	}
	f.balance -= amount
	return f.balance, nil
}

func newTrainingHandler(t *testing.T, balance int) *TrainingHandler {
	t.Helper()
	store := training.NewMemStore()
	mgr := training.NewManager(store, training.NewResolver(t.TempDir()))
	cat := &fakeCatalog{configs: map[string]*models.ModelConfig{
		"2": {ID: "2", Name: "Convolutional Neural Network", Type: "CNN", IsActive: true},
	}}
	svc := training.NewService(mgr, store, cat, &fakeLedger{balance: balance})
	return NewTrainingHandler(svc)
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	u := &models.User{ID: uuid.New(), Username: "tester", Credits: 100}
	return r.WithContext(auth.WithUser(r.Context(), u))
}

func TestStartTrainingValidation(t *testing.T) {
	h := newTrainingHandler(t, 100)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing model", `{"dataset_id":"dataset-1"}`, http.StatusBadRequest},
		{"missing dataset", `{"model_id":"2"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
		{"epochs out of range", `{"model_id":"2","dataset_id":"dataset-1","parameters":{"epochs":5000,"learningRate":0.01,"batchSize":32}}`, http.StatusBadRequest},
		{"unknown model", `{"model_id":"404","dataset_id":"dataset-1"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Start(w, authedRequest("POST", "/api/training/start", tt.body))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestStartTrainingInsufficientCredits(t *testing.T) {
	h := newTrainingHandler(t, 5)

	w := httptest.NewRecorder()
	h.Start(w, authedRequest("POST", "/api/training/start", `{"model_id":"2","dataset_id":"dataset-1"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "insufficient") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestStartTrainingReturnsRunningSession(t *testing.T) {
	h := newTrainingHandler(t, 100)

	w := httptest.NewRecorder()
	h.Start(w, authedRequest("POST", "/api/training/start", `{"model_id":"2","dataset_id":"dataset-1"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Session struct {
			Status string `json:"status"`
		} `json:"session"`
		Cost             int `json:"cost"`
		CreditsRemaining int `json:"credits_remaining"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Session.Status != models.SessionStatusRunning {
		t.Errorf("status = %s, want running", resp.Session.Status)
	}
	if resp.Cost != 10 || resp.CreditsRemaining != 90 {
		t.Errorf("cost = %d remaining = %d", resp.Cost, resp.CreditsRemaining)
	}
}

func TestGetSessionScopedToOwner(t *testing.T) {
	store := training.NewMemStore()
	mgr := training.NewManager(store, training.NewResolver(t.TempDir()))
	cat := &fakeCatalog{configs: map[string]*models.ModelConfig{}}
	svc := training.NewService(mgr, store, cat, &fakeLedger{balance: 100})
	h := NewTrainingHandler(svc)

	other := uuid.New()
	session := &models.TrainingSession{ID: uuid.New(), OwnerID: other, Status: models.SessionStatusRunning}
	if err := store.Create(context.Background(), session); err != nil {
		t.Fatal(err)
	}

	req := authedRequest("GET", "/api/training/"+session.ID.String(), "")
	req = withURLParam(req, "id", session.ID.String())
	w := httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for foreign session", w.Code)
	}
}
