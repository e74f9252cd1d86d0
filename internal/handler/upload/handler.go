// Package upload accepts multipart document uploads and stores them
// alongside the CRM record they belong to.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	agentmodel "github.com/finance1/summary-agent/backend/internal/model/agent"
	"github.com/finance1/summary-agent/backend/internal/service/storage"
	"github.com/finance1/summary-agent/backend/pkg/utils"
)

// maxUploadBytes bounds the multipart form held in memory.
const maxUploadBytes = 32 << 20

// Storer persists an uploaded document.
type Storer interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) error
}

// Handler serves document uploads.
type Handler struct {
	store Storer
	log   *zap.Logger
}

// New creates the upload handler. A nil store marks uploads as
// unavailable rather than failing at startup.
func New(store Storer, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// RegisterRoutes mounts the upload endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "document storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	entityID := r.FormValue("entity_id")
	entityType := r.FormValue("entity_type")
	if entityID == "" {
		utils.RespondError(w, http.StatusBadRequest, "entity_id is required")
		return
	}
	if entityType == "" {
		utils.RespondError(w, http.StatusBadRequest, "entity_type is required")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	// Strip any path components a client might smuggle into the
	// filename so the object lands under the record's directory.
	filename := filepath.Base(header.Filename)
	if filename == "." || filename == string(filepath.Separator) || filename == "" {
		utils.RespondError(w, http.StatusBadRequest, "invalid filename")
		return
	}

	contentType := r.FormValue("file_type")
	if contentType == "" {
		contentType = header.Header.Get("Content-Type")
	}

	objectPath := storage.ObjectPath(entityType, entityID, filename)
	if err := h.store.Put(r.Context(), objectPath, data, contentType); err != nil {
		h.log.Error("document upload failed",
			zap.String("path", objectPath),
			zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, agentmodel.UploadResponse{
		Success:    true,
		Message:    fmt.Sprintf("Document '%s' uploaded successfully for %s %s", filename, entityType, entityID),
		EntityID:   entityID,
		EntityType: entityType,
		Filename:   filename,
	})
}
