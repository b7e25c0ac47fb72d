package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPricingListsTiersAndTrainingCosts(t *testing.T) {
	h := NewResourcesHandler(nil)

	w := httptest.NewRecorder()
	h.Pricing(w, httptest.NewRequest("GET", "/api/resources/pricing", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Tiers []struct {
			Name    string `json:"name"`
			Credits int    `json:"credits"`
		} `json:"tiers"`
		TrainingCosts map[string]int `json:"training_costs"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tiers) != 4 || resp.Tiers[0].Name != "Basic" {
		t.Errorf("tiers = %+v", resp.Tiers)
	}
	if resp.TrainingCosts["GPT-4"] != 100 || resp.TrainingCosts["CNN"] != 10 {
		t.Errorf("training costs = %v", resp.TrainingCosts)
	}
}

func TestCreditsFromAuthenticatedUser(t *testing.T) {
	h := NewResourcesHandler(nil)

	w := httptest.NewRecorder()
	h.Credits(w, authedRequest("GET", "/api/resources/credits", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]int
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["credits"] != 100 {
		t.Errorf("credits = %d, want 100", resp["credits"])
	}
}

func TestAddCreditsRejectsBadAmount(t *testing.T) {
	h := NewResourcesHandler(nil)

	for _, body := range []string{`{}`, `{"amount":-5}`, `{"amount":0}`, `{`} {
		w := httptest.NewRecorder()
		h.AddCredits(w, authedRequest("POST", "/api/resources/add-credits", body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}
