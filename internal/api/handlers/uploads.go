package handlers

import (
	"net/http"
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/storage"
)

type UploadHandler struct {
	presigner storage.Presigner
	now       func() time.Time
}

// NewUploadHandler accepts a nil presigner; uploads then answer 503.
func NewUploadHandler(presigner storage.Presigner) *UploadHandler {
	return &UploadHandler{presigner: presigner, now: time.Now}
}

// Presign handles POST /uploads/presign
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	if h.presigner == nil {
		writeError(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}

	var req dto.PresignRequest
	if !decode(w, r, &req) {
		return
	}

	key, err := storage.ImageKey(req.ContentType, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported content type")
		return
	}

	upload, err := h.presigner.PresignPut(r.Context(), key, req.ContentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to prepare upload")
		return
	}

	writeJSON(w, http.StatusOK, upload)
}
