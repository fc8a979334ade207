package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/metrics"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrTransactionNotFound = errors.New("transaction not found")
)

type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type Donor struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	Amount    float64
}

type Service struct {
	db      *gorm.DB
	gateway Gateway
	logger  *slog.Logger
}

func NewService(db *gorm.DB, gateway Gateway, logger *slog.Logger) *Service {
	return &Service{db: db, gateway: gateway, logger: logger}
}

// CreateOrder opens a gateway order and records a pending transaction for it.
func (s *Service) CreateOrder(ctx context.Context, donor Donor) (txn *models.Transaction, order *Order, err error) {
	defer func() { metrics.RecordPayment("order", err) }()

	if donor.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	order, err = s.gateway.CreateOrder(ctx, donor.Amount, "rcpt_"+uuid.NewString()[:8])
	if err != nil {
		return nil, nil, fmt.Errorf("creating order: %w", err)
	}

	txn = &models.Transaction{
		FirstName: donor.FirstName,
		LastName:  donor.LastName,
		Email:     donor.Email,
		Phone:     donor.Phone,
		Address:   donor.Address,
		Amount:    donor.Amount,
		OrderID:   order.ID,
		Status:    models.TransactionCreated,
	}
	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, nil, fmt.Errorf("saving transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "payment order created", "order_id", order.ID, "transaction_id", txn.ID)
	return txn, order, nil
}

// VerifyPayment checks the checkout signature and marks the transaction paid.
func (s *Service) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (txn *models.Transaction, err error) {
	defer func() { metrics.RecordPayment("verify", err) }()

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	var t models.Transaction
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("loading transaction: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&t).Updates(map[string]interface{}{
		"payment_id": paymentID,
		"status":     models.TransactionPaid,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}
	t.PaymentID = paymentID
	t.Status = models.TransactionPaid

	s.logger.InfoContext(ctx, "payment verified", "order_id", orderID, "transaction_id", t.ID)
	return &t, nil
}

var _ Gateway = (*RazorpayClient)(nil)
