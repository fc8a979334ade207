package dto

import (
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"
)

// DateLayout is the calendar-date format accepted for event dates.
const DateLayout = "2006-01-02"

type DonationRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   string  `json:"description" validate:"required"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	Contact       string  `json:"contact" validate:"required,max=200"`
	EventFromDate string  `json:"event_from_date" validate:"required,datetime=2006-01-02"`
	EventToDate   string  `json:"event_to_date" validate:"required,datetime=2006-01-02"`
}

func (r DonationRequest) Validate() map[string]string {
	errs := validation.Struct(r)
	if errs != nil {
		return errs
	}
	from, to, _ := r.Dates()
	if to.Before(from) {
		return map[string]string{"event_to_date": "event_to_date must not be before event_from_date"}
	}
	return nil
}

// Dates parses the event window. Call after Validate.
func (r DonationRequest) Dates() (from, to time.Time, err error) {
	if from, err = time.Parse(DateLayout, r.EventFromDate); err != nil {
		return
	}
	to, err = time.Parse(DateLayout, r.EventToDate)
	return
}

type BlogRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
}

func (r BlogRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type QueryRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

func (r QueryRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type CompletedWorkRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required,url"`
}

func (r CompletedWorkRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type VoteRequest struct {
	VoteFormID string `json:"vote_form_id" validate:"required,max=100"`
	Vote       string `json:"vote" validate:"required,oneof=yes no"`
}

func (r VoteRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type HasVotedResponse struct {
	HasVoted bool   `json:"has_voted"`
	Vote     string `json:"vote,omitempty"`
}

type VoteCountResponse struct {
	VoteFormID string `json:"vote_form_id"`
	Yes        int64  `json:"yes"`
	No         int64  `json:"no"`
	Total      int64  `json:"total"`
}

type PresignRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

func (r PresignRequest) Validate() map[string]string {
	return validation.Struct(r)
}
