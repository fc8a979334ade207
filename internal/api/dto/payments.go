package dto

import "github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"

type CreateOrderRequest struct {
	FirstName string  `json:"firstname" validate:"required,max=100"`
	LastName  string  `json:"lastname" validate:"max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"omitempty,phone"`
	Address   string  `json:"address" validate:"max=500"`
	Amount    float64 `json:"amount" validate:"gt=0"`
}

func (r CreateOrderRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type CreateOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id,omitempty"`
	Rupees   float64 `json:"amount_rupees"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

func (r VerifyPaymentRequest) Validate() map[string]string {
	return validation.Struct(r)
}
