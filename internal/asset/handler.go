package asset

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	asset, err := h.store.Upload(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrInvalidImage):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("store asset", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save file")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(asset)
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve(prefix string) http.Handler {
	fs := http.FileServer(http.Dir(h.store.Dir()))
	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
