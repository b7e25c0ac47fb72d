package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/catalog"
)

type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list models"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": configs, "count": len(configs)})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	model, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "model not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load model"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"model": model})
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.Type == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and type required"})
		return
	}

	model, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create model"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"model": model})
}

// Export serves the model configuration as a downloadable JSON document.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	model, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "model not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load model"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="model-%s.json"`, model.ID))
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(model)
}
