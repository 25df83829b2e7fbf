package project

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/credify/editor/internal/auth"
	"github.com/credify/editor/internal/cache"
	"github.com/credify/editor/internal/layout"
)

// maxLayoutBytes bounds a layout upload.
const maxLayoutBytes = 4 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the project routes on an authenticated router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/projects", h.List).Methods("GET")
	r.HandleFunc("/projects", h.Create).Methods("POST")
	r.HandleFunc("/projects/{projectId}", h.Get).Methods("GET")
	r.HandleFunc("/projects/{projectId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/projects/{projectId}/template", h.SetTemplate).Methods("PUT")
	r.HandleFunc("/projects/{projectId}/layout", h.GetLayout).Methods("GET")
	r.HandleFunc("/projects/{projectId}/layout", h.PutLayout).Methods("PUT")
}

type createRequest struct {
	Name     string   `json:"name"`
	Template Template `json:"template"`
}

type saveResponse struct {
	Version int `json:"version"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	project, err := h.service.Create(r.Context(), req.Name, userID, req.Template)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	project, err := h.service.Get(r.Context(), projectID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	if err := h.service.Delete(r.Context(), projectID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	projects, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("list projects failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) SetTemplate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	var req Template
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	project, err := h.service.SetTemplate(r.Context(), projectID, userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	if err := h.service.Authorize(r.Context(), projectID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	doc, err := h.service.LoadLayout(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) PutLayout(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	if err := h.service.Authorize(r.Context(), projectID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	var doc layout.Document
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLayoutBytes)).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid layout body"})
		return
	}

	version, err := h.service.SaveLayout(r.Context(), projectID, doc.Normalize())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{Version: version})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrInvalidLayout), errors.Is(err, ErrInvalidTemplate):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrConflict), errors.Is(err, cache.ErrLocked):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "project is being saved, retry"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
