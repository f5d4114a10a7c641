package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-relay/internal/models"
)

// PaymentGateway creates transactions and confirms callbacks with the payment provider
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, orderID string, amount decimal.Decimal, customer *models.Customer) (string, error)
	VerifyNotification(ctx context.Context, notification *models.Notification) (*models.Verification, error)
}
