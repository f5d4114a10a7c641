package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// BalanceUpdate is a single credit applied to a customer for one gateway order.
// Previous is the balance the caller read; the write only succeeds while it is
// still current.
type BalanceUpdate struct {
	CustomerID string
	OrderID    string
	Amount     decimal.Decimal
	Previous   decimal.Decimal
	New        decimal.Decimal
}
