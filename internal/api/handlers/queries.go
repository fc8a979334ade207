package handlers

import (
	"net/http"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"gorm.io/gorm"
)

type QueryHandler struct {
	db *gorm.DB
}

func NewQueryHandler(db *gorm.DB) *QueryHandler {
	return &QueryHandler{db: db}
}

// Create handles POST /post-query from the public contact form.
func (h *QueryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.QueryRequest
	if !decode(w, r, &req) {
		return
	}

	query := models.Query{
		Email:       req.Email,
		Subject:     validation.SanitizeString(req.Subject),
		Description: validation.SanitizeString(req.Description),
	}
	if err := h.db.WithContext(r.Context()).Create(&query).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to submit query")
		return
	}

	writeJSON(w, http.StatusCreated, query)
}

// List handles GET /queries
func (h *QueryHandler) List(w http.ResponseWriter, r *http.Request) {
	var queries []models.Query
	if err := h.db.WithContext(r.Context()).Order("created_at DESC").Find(&queries).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list queries")
		return
	}
	writeJSON(w, http.StatusOK, queries)
}

// Delete handles DELETE /delete-query/{id}
func (h *QueryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	deleteByID(w, r, h.db, &models.Query{}, id, "Query")
}
