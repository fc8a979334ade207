package handlers

import (
	"errors"
	"net/http"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/middleware"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/auth"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/users"
)

type UserHandler struct {
	users *users.Store
}

func NewUserHandler(store *users.Store) *UserHandler {
	return &UserHandler{users: store}
}

// VolunteerResponse is a public profile plus the volunteer contact details.
// Only admins and the volunteer themselves see it.
type VolunteerResponse struct {
	*auth.PublicUser
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

func volunteerToResponse(u *models.User) VolunteerResponse {
	return VolunteerResponse{
		PublicUser: auth.NewPublicUser(u),
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		State:      u.State,
		PostalCode: u.PostalCode,
	}
}

// Volunteer handles POST /volunteer for the authenticated user.
func (h *UserHandler) Volunteer(w http.ResponseWriter, r *http.Request) {
	var req dto.VolunteerRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.users.SetVolunteerProfile(r.Context(), middleware.GetUserEmail(r.Context()), users.VolunteerProfile{
		Phone:      validation.SanitizeString(req.Phone),
		Address:    validation.SanitizeString(req.Address),
		City:       validation.SanitizeString(req.City),
		State:      validation.SanitizeString(req.State),
		PostalCode: validation.SanitizeString(req.PostalCode),
	})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to register volunteer")
		return
	}

	writeJSON(w, http.StatusOK, volunteerToResponse(user))
}

// ListVolunteers handles GET /volunteers
func (h *UserHandler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.ListVolunteers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list volunteers")
		return
	}

	resp := make([]VolunteerResponse, len(list))
	for i := range list {
		resp[i] = volunteerToResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// CountVolunteers handles GET /volunteers/count
func (h *UserHandler) CountVolunteers(w http.ResponseWriter, r *http.Request) {
	count, err := h.users.CountVolunteers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count volunteers")
		return
	}
	writeJSON(w, http.StatusOK, dto.CountResponse{Count: count})
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	resp := make([]*auth.PublicUser, len(list))
	for i := range list {
		resp[i] = auth.NewPublicUser(&list[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /delete-user/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if id == middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "User deleted"})
}

// UpdateStatus handles PUT /update-user-status/{userId}
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "userId")
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if !decode(w, r, &req) {
		return
	}
	if id == middleware.GetUserID(r.Context()) && !*req.IsActive {
		writeError(w, http.StatusBadRequest, "Cannot disable your own account")
		return
	}

	if err := h.users.SetEnabled(r.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, auth.NewPublicUser(user))
}
