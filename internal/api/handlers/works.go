package handlers

import (
	"net/http"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"gorm.io/gorm"
)

type CompletedWorkHandler struct {
	db *gorm.DB
}

func NewCompletedWorkHandler(db *gorm.DB) *CompletedWorkHandler {
	return &CompletedWorkHandler{db: db}
}

// Create handles POST /add-completed-works
func (h *CompletedWorkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CompletedWorkRequest
	if !decode(w, r, &req) {
		return
	}

	work := models.CompletedWork{
		Title:       validation.SanitizeString(req.Title),
		Description: validation.SanitizeString(req.Description),
		Image:       req.Image,
	}
	if err := h.db.WithContext(r.Context()).Create(&work).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save completed work")
		return
	}

	writeJSON(w, http.StatusCreated, work)
}

// List handles GET /completed-works
func (h *CompletedWorkHandler) List(w http.ResponseWriter, r *http.Request) {
	var works []models.CompletedWork
	if err := h.db.WithContext(r.Context()).Order("created_at DESC").Find(&works).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list completed works")
		return
	}
	writeJSON(w, http.StatusOK, works)
}

// Delete handles DELETE /delete-completed-work/{id}
func (h *CompletedWorkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	deleteByID(w, r, h.db, &models.CompletedWork{}, id, "Completed work")
}
