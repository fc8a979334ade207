package dto

import "github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r SignupRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r EmailRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   int    `json:"otp" validate:"required,gte=1000,lte=9999"`
}

func (r VerifyOTPRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,max=72"`
}

func (r ResetPasswordRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type VolunteerRequest struct {
	Phone      string `json:"phone" validate:"required,phone"`
	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
}

func (r VolunteerRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (r UpdateUserStatusRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type CountResponse struct {
	Count int64 `json:"count"`
}
