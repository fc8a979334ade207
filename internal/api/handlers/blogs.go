package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/middleware"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"gorm.io/gorm"
)

// BlogHandler serves community blog posts. Posts are submitted by any signed
// in user and stay hidden until an admin approves them.
type BlogHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBlogHandler(db *gorm.DB) *BlogHandler {
	return &BlogHandler{db: db, now: time.Now}
}

// Create handles POST /add-blog
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.BlogRequest
	if !decode(w, r, &req) {
		return
	}

	blog := models.Blog{
		Title:       validation.SanitizeString(req.Title),
		Description: validation.SanitizeString(req.Description),
		Image:       req.Image,
		Author:      middleware.GetUserName(r.Context()),
		AuthorID:    middleware.GetUserID(r.Context()),
		Date:        h.now().UTC(),
		Status:      models.BlogStatusPending,
	}
	if err := h.db.WithContext(r.Context()).Create(&blog).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create blog")
		return
	}

	writeJSON(w, http.StatusCreated, blog)
}

// List handles GET /blogs
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.BlogStatusApproved)
}

// Pending handles GET /pending-blogs
func (h *BlogHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.BlogStatusPending)
}

func (h *BlogHandler) list(w http.ResponseWriter, r *http.Request, status models.BlogStatus) {
	var blogs []models.Blog
	err := h.db.WithContext(r.Context()).
		Where("status = ?", status).
		Order("date DESC").
		Find(&blogs).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list blogs")
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// Get handles GET /blog/{id}. Unapproved posts are reported as missing.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var blog models.Blog
	err := h.db.WithContext(r.Context()).
		Where("id = ? AND status = ?", id, models.BlogStatusApproved).
		First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Blog not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load blog")
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// Approve handles PUT /approve-blog/{id}
func (h *BlogHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	result := h.db.WithContext(r.Context()).
		Model(&models.Blog{}).
		Where("id = ?", id).
		Update("status", models.BlogStatusApproved)
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to approve blog")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Blog approved"})
}

// Delete handles DELETE /delete-blog/{id}
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	deleteByID(w, r, h.db, &models.Blog{}, id, "Blog")
}
