package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/epochml/epoch-ml/internal/auth"
	"github.com/epochml/epoch-ml/internal/dataset"
)

const maxUploadBytes = 32 << 20 // 32 MiB

type DatasetHandler struct {
	svc *dataset.Service
}

func NewDatasetHandler(svc *dataset.Service) *DatasetHandler {
	return &DatasetHandler{svc: svc}
}

func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list datasets"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"datasets": datasets, "count": len(datasets)})
}

func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, dataset.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "dataset not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dataset"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"dataset": d})
}

func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	d, err := h.svc.Upload(r.Context(), dataset.UploadRequest{
		Name:        name,
		Description: r.FormValue("description"),
		FileType:    filepath.Ext(header.Filename),
		Data:        file,
		OwnerID:     auth.UserIDFromContext(r.Context()),
	})
	if errors.Is(err, dataset.ErrUnsupportedType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "upload failed"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"dataset": d})
}

func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), auth.UserIDFromContext(r.Context()))
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "dataset not found"})
	case errors.Is(err, dataset.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "dataset cannot be deleted"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete dataset"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
