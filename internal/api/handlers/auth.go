package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/middleware"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/auth"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/otp"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles POST /signup. The account stays unverified until the emailed
// code is confirmed, so no token is returned here.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Signup(r.Context(), auth.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAuthError(w, err, "Signup failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAuthError(w, err, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AdminLogin handles POST /admin-login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.AdminLogin(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInactiveUser) {
			// admin-login reports every failure as 401
			err = auth.ErrUnauthorized
		}
		writeAuthError(w, err, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SendOTP handles POST /send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.authService.SendOTP(r.Context(), req.Email); err != nil {
		writeAuthError(w, err, "Failed to send verification code")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Verification code sent"})
}

// VerifyOTP handles POST /verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeAuthError(w, err, "Verification failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ForgotPassword handles POST /forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeAuthError(w, err, "Failed to send reset link")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password reset link sent"})
}

// ResetPassword handles POST /reset-password/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		writeAuthError(w, err, "Password reset failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password updated"})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(r.Context(), claims); err != nil {
		writeError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// token outlived its account
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, auth.NewPublicUser(user))
}

func writeAuthError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		writeError(w, http.StatusBadRequest, "Validation failed")
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, auth.ErrInactiveUser):
		writeError(w, http.StatusForbidden, "Account is disabled")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, otp.ErrCodeMismatch):
		writeError(w, http.StatusUnauthorized, "Invalid verification code")
	case errors.Is(err, otp.ErrCodeNotFound):
		writeError(w, http.StatusNotFound, "Verification code not found or expired")
	case errors.Is(err, auth.ErrExpiredToken):
		writeError(w, http.StatusBadRequest, "Reset link has expired")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "Invalid reset link")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
