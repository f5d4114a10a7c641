package interfaces

import (
	"context"

	"github.com/akylbek/payment-relay/internal/models"
)

// CustomerRepository defines the contract for customer data access
type CustomerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	UpdateBalance(ctx context.Context, update models.BalanceUpdate) error
	IsApplied(ctx context.Context, orderID string) (bool, error)
}
