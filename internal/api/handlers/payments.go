package handlers

import (
	"errors"
	"net/http"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/validation"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/payments"
)

type PaymentHandler struct {
	payments *payments.Service
	keyID    string
}

// NewPaymentHandler wires the checkout endpoints. keyID is the public
// Razorpay key echoed to the browser checkout. A nil service answers 503.
func NewPaymentHandler(svc *payments.Service, keyID string) *PaymentHandler {
	return &PaymentHandler{payments: svc, keyID: keyID}
}

// CreateOrder handles POST /create-order
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeError(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	var req dto.CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}

	txn, order, err := h.payments.CreateOrder(r.Context(), payments.Donor{
		FirstName: validation.SanitizeString(req.FirstName),
		LastName:  validation.SanitizeString(req.LastName),
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   validation.SanitizeString(req.Address),
		Amount:    req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "Invalid amount")
		case errors.Is(err, payments.ErrGateway):
			writeError(w, http.StatusBadGateway, "Payment gateway unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    h.keyID,
		Rupees:   txn.Amount,
	})
}

// VerifyPayment handles POST /verify-payment with the fields returned by the
// Razorpay checkout.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeError(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	var req dto.VerifyPaymentRequest
	if !decode(w, r, &req) {
		return
	}

	txn, err := h.payments.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			writeError(w, http.StatusBadRequest, "Invalid payment signature")
		case errors.Is(err, payments.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "Transaction not found")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to verify payment")
		}
		return
	}

	writeJSON(w, http.StatusOK, txn)
}
