package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/middleware"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"gorm.io/gorm"
)

type VoteHandler struct {
	db *gorm.DB
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{db: db}
}

// Vote handles POST /vote. Each user votes once per form; the unique index on
// (user_id, vote_form_id) settles concurrent submissions.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req dto.VoteRequest
	if !decode(w, r, &req) {
		return
	}

	vote := models.Vote{
		UserID:     middleware.GetUserID(r.Context()),
		VoteFormID: req.VoteFormID,
		Vote:       models.VoteChoice(req.Vote),
	}

	var count int64
	err := h.db.WithContext(r.Context()).Model(&models.Vote{}).
		Where("user_id = ? AND vote_form_id = ?", vote.UserID, vote.VoteFormID).
		Count(&count).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest, "You have already voted")
		return
	}

	if err := h.db.WithContext(r.Context()).Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusBadRequest, "You have already voted")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	writeJSON(w, http.StatusOK, vote)
}

// HasVoted handles GET /hasvoted/{id} for the authenticated user.
func (h *VoteHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	var vote models.Vote
	err := h.db.WithContext(r.Context()).
		Where("user_id = ? AND vote_form_id = ?", middleware.GetUserID(r.Context()), chi.URLParam(r, "id")).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusOK, dto.HasVotedResponse{})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check vote")
		return
	}

	writeJSON(w, http.StatusOK, dto.HasVotedResponse{HasVoted: true, Vote: string(vote.Vote)})
}

// Count handles GET /countvotes/{id}
func (h *VoteHandler) Count(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")

	var rows []struct {
		Vote  models.VoteChoice
		Total int64
	}
	err := h.db.WithContext(r.Context()).Model(&models.Vote{}).
		Select("vote, COUNT(*) AS total").
		Where("vote_form_id = ?", formID).
		Group("vote").
		Scan(&rows).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count votes")
		return
	}

	resp := dto.VoteCountResponse{VoteFormID: formID}
	for _, row := range rows {
		switch row.Vote {
		case models.VoteYes:
			resp.Yes = row.Total
		case models.VoteNo:
			resp.No = row.Total
		}
		resp.Total += row.Total
	}
	writeJSON(w, http.StatusOK, resp)
}
