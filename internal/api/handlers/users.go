package handlers

import (
	"net/http"

	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/training"
	"github.com/epochml/epoch-ml/internal/user"
)

type UsersHandler struct {
	users    *user.Service
	training *training.Service
}

func NewUsersHandler(users *user.Service, trainingSvc *training.Service) *UsersHandler {
	return &UsersHandler{users: users, training: trainingSvc}
}

func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

func (h *UsersHandler) TrainingHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.training.History(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions, "count": len(sessions)})
}

// List is admin-only and returns every registered user.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list users"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users, "count": len(users)})
}
