// Package payments creates and verifies Razorpay orders.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/config"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	gobreaker "github.com/sony/gobreaker/v2"
)

var ErrGateway = errors.New("payment gateway error")

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderCreator is the part of the SDK order resource the client needs.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayClient creates orders through the Razorpay SDK behind a circuit breaker.
type RazorpayClient struct {
	orders    OrderCreator
	keySecret string
	cb        *gobreaker.CircuitBreaker[*Order]
}

func NewRazorpayClient(cfg *config.RazorpayConfig) *RazorpayClient {
	sdk := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return NewRazorpayClientWithOrders(sdk.Order, cfg.KeySecret)
}

// NewRazorpayClientWithOrders builds a client over any order creator.
func NewRazorpayClientWithOrders(orders OrderCreator, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		orders:    orders,
		keySecret: keySecret,
		cb: gobreaker.NewCircuitBreaker[*Order](gobreaker.Settings{
			Name:        "razorpay",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// CreateOrder opens an INR order. amount is in rupees; the API wants paise.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount float64, receipt string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  receipt,
	}

	return c.cb.Execute(func() (*Order, error) {
		body, err := c.orders.Create(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGateway, err)
		}
		order := orderFromMap(body)
		if order.ID == "" {
			return nil, fmt.Errorf("%w: response has no order id", ErrGateway)
		}
		return order, nil
	})
}

func orderFromMap(m map[string]interface{}) *Order {
	order := &Order{}
	order.ID, _ = m["id"].(string)
	order.Currency, _ = m["currency"].(string)
	order.Receipt, _ = m["receipt"].(string)
	order.Status, _ = m["status"].(string)
	switch v := m["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	}
	return order
}

// VerifySignature checks the checkout signature Razorpay hands the browser.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	return ValidSignature(c.keySecret, orderID, paymentID, signature)
}

func ValidSignature(secret, orderID, paymentID, signature string) bool {
	if signature == "" {
		return false
	}
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, secret)
}
