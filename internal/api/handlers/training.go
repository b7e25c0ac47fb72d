package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/models"
	"github.com/epochml/epoch-ml/internal/training"
	"github.com/epochml/epoch-ml/internal/user"
)

type TrainingHandler struct {
	svc *training.Service
}

func NewTrainingHandler(svc *training.Service) *TrainingHandler {
	return &TrainingHandler{svc: svc}
}

func (h *TrainingHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req training.StartTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ModelID == "" || req.DatasetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "model_id and dataset_id required"})
		return
	}

	if len(req.Parameters) > 0 {
		var params models.TrainingParameters
		if err := json.Unmarshal(req.Parameters, &params); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid parameters"})
			return
		}
		if err := training.ValidateParameters(params); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	result, err := h.svc.Start(r.Context(), auth.UserIDFromContext(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, training.ErrModelNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "model not found"})
		case errors.Is(err, training.ErrNotOwner):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "model belongs to another user"})
		case errors.Is(err, user.ErrInsufficientCredits):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start training"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.History(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions, "count": len(sessions)})
}

func (h *TrainingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	session, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, training.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}

	if session.OwnerID != auth.UserIDFromContext(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

func (h *TrainingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	err = h.svc.Delete(r.Context(), id, auth.UserIDFromContext(r.Context()))
	if errors.Is(err, training.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
