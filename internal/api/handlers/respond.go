package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"gorm.io/gorm"
)

const maxBodyBytes = 1 << 20

type validatable interface {
	Validate() map[string]string
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// decode reads a JSON body into req and validates it. On failure the 400 has
// already been written and decode returns false.
func decode(w http.ResponseWriter, r *http.Request, req validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return false
	}
	return true
}

// uuidParam parses a UUID URL parameter, writing a 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

// deleteByID hard-deletes one row of model's table and writes the response.
// what names the resource in messages ("Blog", "Query").
func deleteByID(w http.ResponseWriter, r *http.Request, db *gorm.DB, model interface{}, id uuid.UUID, what string) {
	result := db.WithContext(r.Context()).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete "+strings.ToLower(what))
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: what + " deleted"})
}
