package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionStatusCapture = "capture"
	FraudStatusAccept        = "accept"
)

type CreateTransactionRequest struct {
	Email  string          `json:"email" binding:"required,email"`
	Amount decimal.Decimal `json:"amount"`
}

type CreateTransactionResponse struct {
	Token string `json:"token"`
}

// Notification is the raw callback body posted by Midtrans. None of its status
// fields are trusted until the gateway has confirmed them.
type Notification struct {
	OrderID           string `json:"order_id" binding:"required"`
	StatusCode        string `json:"status_code" binding:"required"`
	GrossAmount       string `json:"gross_amount" binding:"required"`
	SignatureKey      string `json:"signature_key" binding:"required"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
}

// Verification holds the authoritative transaction state returned by the gateway.
type Verification struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	GrossAmount       decimal.Decimal
	CustomerEmail     string
}

func (v *Verification) Successful() bool {
	return v.TransactionStatus == TransactionStatusCapture && v.FraudStatus == FraudStatusAccept
}

type BalanceCreditedEvent struct {
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Email      string          `json:"email"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
	CreditedAt time.Time       `json:"credited_at"`
}
