package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-relay/internal/interfaces"
	"github.com/akylbek/payment-relay/internal/metrics"
	"github.com/akylbek/payment-relay/internal/models"
	"github.com/akylbek/payment-relay/internal/telemetry"
)

// Outcome describes what a notification did to the customer's balance.
type Outcome string

const (
	OutcomeCredited  Outcome = metrics.OutcomeCredited
	OutcomeIgnored   Outcome = metrics.OutcomeIgnored
	OutcomeDuplicate Outcome = metrics.OutcomeDuplicate
)

const maxCreditAttempts = 3

type NotificationService struct {
	customers interfaces.CustomerRepository
	gateway   interfaces.PaymentGateway
	publisher interfaces.EventPublisher
	now       func() time.Time
}

func NewNotificationService(customers interfaces.CustomerRepository, gateway interfaces.PaymentGateway, publisher interfaces.EventPublisher) *NotificationService {
	return &NotificationService{
		customers: customers,
		gateway:   gateway,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *NotificationService) HandleNotification(ctx context.Context, notification *models.Notification) (Outcome, error) {
	outcome, err := s.handle(ctx, notification)
	switch {
	case errors.Is(err, models.ErrNotFound):
		metrics.NotificationsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
	case err != nil:
		metrics.NotificationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	default:
		metrics.NotificationsTotal.WithLabelValues(string(outcome)).Inc()
	}
	return outcome, err
}

func (s *NotificationService) handle(ctx context.Context, notification *models.Notification) (Outcome, error) {
	verified, err := s.gateway.VerifyNotification(ctx, notification)
	if err != nil {
		return "", fmt.Errorf("verify notification %s: %w", notification.OrderID, err)
	}

	telemetry.Logger.Info("Notification verified",
		zap.String("order_id", verified.OrderID),
		zap.String("transaction_status", verified.TransactionStatus),
		zap.String("fraud_status", verified.FraudStatus),
		zap.String("trace_id", telemetry.TraceID(ctx)),
	)

	if !verified.Successful() {
		return OutcomeIgnored, nil
	}
	if !verified.GrossAmount.IsPositive() {
		return "", fmt.Errorf("%w: non-positive gross amount %s for order %s", models.ErrUpstream, verified.GrossAmount, verified.OrderID)
	}
	// The order directory entry may have expired after the first credit, so an
	// already applied order is acknowledged before the customer is required.
	applied, err := s.customers.IsApplied(ctx, verified.OrderID)
	if err != nil {
		return "", fmt.Errorf("check applied order %s: %w", verified.OrderID, err)
	}
	if applied {
		telemetry.Logger.Info("Order already applied",
			zap.String("order_id", verified.OrderID),
		)
		return OutcomeDuplicate, nil
	}
	if verified.CustomerEmail == "" {
		return "", fmt.Errorf("customer for order %s: %w", verified.OrderID, models.ErrNotFound)
	}

	for attempt := 1; ; attempt++ {
		outcome, err := s.credit(ctx, verified)
		if !errors.Is(err, models.ErrBalanceChanged) || attempt == maxCreditAttempts {
			return outcome, err
		}
		telemetry.Logger.Warn("Balance changed during credit, retrying",
			zap.String("order_id", verified.OrderID),
			zap.Int("attempt", attempt),
		)
	}
}

// credit reads the current balance and writes balance+amount, guarded by the
// order id ledger and a compare on the balance that was read.
func (s *NotificationService) credit(ctx context.Context, verified *models.Verification) (Outcome, error) {
	customer, err := s.customers.FindByEmail(ctx, verified.CustomerEmail)
	if err != nil {
		return "", fmt.Errorf("find customer %s: %w", verified.CustomerEmail, err)
	}

	update := models.BalanceUpdate{
		CustomerID: customer.ID,
		OrderID:    verified.OrderID,
		Amount:     verified.GrossAmount,
		Previous:   customer.Balance,
		New:        customer.Balance.Add(verified.GrossAmount),
	}

	err = s.customers.UpdateBalance(ctx, update)
	if errors.Is(err, models.ErrConflict) {
		telemetry.Logger.Info("Order already applied",
			zap.String("order_id", verified.OrderID),
			zap.String("customer_id", customer.ID),
		)
		return OutcomeDuplicate, nil
	}
	if err != nil {
		return "", fmt.Errorf("update balance for order %s: %w", verified.OrderID, err)
	}

	metrics.CreditedAmountTotal.Add(verified.GrossAmount.InexactFloat64())
	telemetry.Logger.Info("Balance credited",
		zap.String("order_id", verified.OrderID),
		zap.String("customer_id", customer.ID),
		zap.String("amount", update.Amount.String()),
		zap.String("balance", update.New.String()),
	)

	event := &models.BalanceCreditedEvent{
		OrderID:    verified.OrderID,
		CustomerID: customer.ID,
		Email:      customer.Email,
		Amount:     update.Amount,
		Balance:    update.New,
		CreditedAt: s.now().UTC(),
	}
	if err := s.publisher.PublishBalanceCredited(ctx, event); err != nil {
		telemetry.Logger.Error("Failed to publish balance event",
			zap.String("order_id", verified.OrderID),
			zap.Error(err),
		)
	}

	return OutcomeCredited, nil
}
