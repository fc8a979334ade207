package handlers

import (
	"errors"
	"net/http"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"gorm.io/gorm"
)

type DonationHandler struct {
	db *gorm.DB
}

func NewDonationHandler(db *gorm.DB) *DonationHandler {
	return &DonationHandler{db: db}
}

func applyDonation(d *models.Donation, req dto.DonationRequest) {
	from, to, _ := req.Dates()
	d.Title = validation.SanitizeString(req.Title)
	d.Description = validation.SanitizeString(req.Description)
	d.Amount = req.Amount
	d.Contact = validation.SanitizeString(req.Contact)
	d.EventFromDate = from
	d.EventToDate = to
}

// Create handles POST /donation-form
func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DonationRequest
	if !decode(w, r, &req) {
		return
	}

	var donation models.Donation
	applyDonation(&donation, req)
	if err := h.db.WithContext(r.Context()).Create(&donation).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create donation form")
		return
	}

	writeJSON(w, http.StatusCreated, donation)
}

// List handles GET /donation-forms, soonest event first.
func (h *DonationHandler) List(w http.ResponseWriter, r *http.Request) {
	var donations []models.Donation
	if err := h.db.WithContext(r.Context()).Order("event_from_date ASC").Find(&donations).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list donation forms")
		return
	}
	writeJSON(w, http.StatusOK, donations)
}

// Get handles GET /donation-form/{id}
func (h *DonationHandler) Get(w http.ResponseWriter, r *http.Request) {
	donation, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, donation)
}

// Update handles PUT /donation-form/{id}
func (h *DonationHandler) Update(w http.ResponseWriter, r *http.Request) {
	donation, ok := h.load(w, r)
	if !ok {
		return
	}

	var req dto.DonationRequest
	if !decode(w, r, &req) {
		return
	}

	applyDonation(donation, req)
	if err := h.db.WithContext(r.Context()).Save(donation).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update donation form")
		return
	}

	writeJSON(w, http.StatusOK, donation)
}

// Delete handles DELETE /donation-form/{id}
func (h *DonationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	deleteByID(w, r, h.db, &models.Donation{}, id, "Donation form")
}

func (h *DonationHandler) load(w http.ResponseWriter, r *http.Request) (*models.Donation, bool) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return nil, false
	}

	var donation models.Donation
	if err := h.db.WithContext(r.Context()).Where("id = ?", id).First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Donation form not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to load donation form")
		return nil, false
	}
	return &donation, true
}
