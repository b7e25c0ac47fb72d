package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/training"
	"github.com/epochml/epoch-ml/internal/user"
)

type ResourcesHandler struct {
	users *user.Service
}

func NewResourcesHandler(users *user.Service) *ResourcesHandler {
	return &ResourcesHandler{users: users}
}

func (h *ResourcesHandler) Credits(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"credits": u.Credits})
}

type addCreditsRequest struct {
	Amount int `json:"amount"`
}

// AddCredits simulates a payment and credits the account.
func (h *ResourcesHandler) AddCredits(w http.ResponseWriter, r *http.Request) {
	var req addCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return
	}

	balance, err := h.users.AddCredits(r.Context(), auth.UserIDFromContext(r.Context()), req.Amount)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add credits"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "credits added successfully",
		"credits": balance,
	})
}

type pricingTier struct {
	Name    string `json:"name"`
	Cost    int    `json:"cost"`
	Credits int    `json:"credits"`
}

func (h *ResourcesHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tiers": []pricingTier{
			{Name: "Basic", Cost: 10, Credits: 100},
			{Name: "Standard", Cost: 25, Credits: 250},
			{Name: "Premium", Cost: 50, Credits: 550},
			{Name: "Enterprise", Cost: 100, Credits: 1200},
		},
		"training_costs": training.Pricing(),
	})
}
