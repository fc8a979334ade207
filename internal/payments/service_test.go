package payments

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	secret string
	err    error
	orders int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount float64, receipt string) (*Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.orders++
	return &Order{ID: "order_" + receipt, Amount: int64(amount * 100), Currency: "INR", Receipt: receipt}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return ValidSignature(g.secret, orderID, paymentID, signature)
}

func newTestService(t *testing.T, gw Gateway) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(testutil.SetupTestDB(t), gw, logger)
}

func TestService_CreateAndVerify(t *testing.T) {
	gw := &fakeGateway{secret: "secret"}
	svc := newTestService(t, gw)
	ctx := testutil.TestContext(t)

	txn, order, err := svc.CreateOrder(ctx, Donor{FirstName: "Asha", Email: "a@x.com", Amount: 250})
	require.NoError(t, err)
	assert.Equal(t, order.ID, txn.OrderID)
	assert.Equal(t, models.TransactionCreated, txn.Status)

	_, err = svc.VerifyPayment(ctx, order.ID, "pay_1", "bogus")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	paid, err := svc.VerifyPayment(ctx, order.ID, "pay_1", sign("secret", order.ID, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, models.TransactionPaid, paid.Status)
	assert.Equal(t, "pay_1", paid.PaymentID)

	var stored models.Transaction
	require.NoError(t, svc.db.Where("order_id = ?", order.ID).First(&stored).Error)
	assert.Equal(t, models.TransactionPaid, stored.Status)
}

func TestService_CreateOrderValidation(t *testing.T) {
	gw := &fakeGateway{secret: "secret"}
	svc := newTestService(t, gw)

	_, _, err := svc.CreateOrder(testutil.TestContext(t), Donor{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Zero(t, gw.orders)
}

func TestService_CreateOrderGatewayFailure(t *testing.T) {
	svc := newTestService(t, &fakeGateway{err: errors.New("timeout")})

	_, _, err := svc.CreateOrder(testutil.TestContext(t), Donor{Amount: 10})
	assert.Error(t, err)

	var count int64
	require.NoError(t, svc.db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestService_VerifyUnknownOrder(t *testing.T) {
	svc := newTestService(t, &fakeGateway{secret: "secret"})

	_, err := svc.VerifyPayment(testutil.TestContext(t), "order_x", "pay_1", sign("secret", "order_x", "pay_1"))
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
