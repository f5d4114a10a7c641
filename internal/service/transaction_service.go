package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akylbek/payment-relay/internal/interfaces"
	"github.com/akylbek/payment-relay/internal/metrics"
	"github.com/akylbek/payment-relay/internal/models"
	"github.com/akylbek/payment-relay/internal/telemetry"
)

// maxAmount is the largest gross amount the gateway request can carry.
var maxAmount = decimal.NewFromInt(math.MaxInt64)

type TransactionService struct {
	customers  interfaces.CustomerRepository
	gateway    interfaces.PaymentGateway
	newOrderID func() string
}

func NewTransactionService(customers interfaces.CustomerRepository, gateway interfaces.PaymentGateway) *TransactionService {
	return &TransactionService{
		customers:  customers,
		gateway:    gateway,
		newOrderID: NewOrderID,
	}
}

// NewOrderID returns ORDER-<unix millis>-<12 random hex chars>. Midtrans caps
// order ids at 50 characters.
func NewOrderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("ORDER-%d-%s", time.Now().UnixMilli(), suffix)
}

func (s *TransactionService) CreateTransaction(ctx context.Context, email string, amount decimal.Decimal) (string, error) {
	if err := validateAmount(amount); err != nil {
		metrics.TransactionsTotal.WithLabelValues(metrics.ResultValidation).Inc()
		return "", err
	}

	customer, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		metrics.TransactionsTotal.WithLabelValues(resultLabel(err)).Inc()
		return "", fmt.Errorf("find customer %s: %w", email, err)
	}

	orderID := s.newOrderID()

	telemetry.Logger.Info("Creating transaction",
		zap.String("order_id", orderID),
		zap.String("customer_id", customer.ID),
		zap.String("amount", amount.String()),
		zap.String("trace_id", telemetry.TraceID(ctx)),
	)

	token, err := s.gateway.CreateTransaction(ctx, orderID, amount, customer)
	if err != nil {
		metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("create transaction %s: %w", orderID, err)
	}

	metrics.TransactionsTotal.WithLabelValues(metrics.ResultCreated).Inc()
	telemetry.Logger.Info("Transaction created",
		zap.String("order_id", orderID),
	)

	return token, nil
}

func validateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	case !amount.Equal(amount.Truncate(0)):
		return fmt.Errorf("%w: amount must be a whole number", models.ErrValidation)
	case amount.GreaterThan(maxAmount):
		return fmt.Errorf("%w: amount %s exceeds %s", models.ErrValidation, amount, maxAmount)
	}
	return nil
}

func resultLabel(err error) string {
	if errors.Is(err, models.ErrNotFound) {
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}
