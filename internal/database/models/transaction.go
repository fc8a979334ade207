package models

type TransactionStatus string

const (
	TransactionCreated TransactionStatus = "created"
	TransactionPaid    TransactionStatus = "paid"
	TransactionFailed  TransactionStatus = "failed"
)

// Transaction tracks a payment-gateway order from creation to verification.
type Transaction struct {
	Base
	FirstName string            `json:"firstname"`
	LastName  string            `json:"lastname"`
	Email     string            `gorm:"index" json:"email"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	Amount    float64           `json:"amount"`
	PaymentID string            `json:"payment_id,omitempty"`
	OrderID   string            `gorm:"uniqueIndex" json:"order_id"`
	Status    TransactionStatus `gorm:"default:'created'" json:"status"`
}

func (Transaction) TableName() string {
	return "transactions"
}
