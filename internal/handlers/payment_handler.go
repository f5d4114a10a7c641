package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akylbek/payment-relay/internal/models"
	"github.com/akylbek/payment-relay/internal/service"
	"github.com/akylbek/payment-relay/internal/telemetry"
)

type TransactionCreator interface {
	CreateTransaction(ctx context.Context, email string, amount decimal.Decimal) (string, error)
}

type NotificationHandler interface {
	HandleNotification(ctx context.Context, notification *models.Notification) (service.Outcome, error)
}

type PaymentHandler struct {
	transactions  TransactionCreator
	notifications NotificationHandler
}

func NewPaymentHandler(transactions TransactionCreator, notifications NotificationHandler) *PaymentHandler {
	return &PaymentHandler{
		transactions:  transactions,
		notifications: notifications,
	}
}

func (h *PaymentHandler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.Logger.Warn("Invalid transaction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := h.transactions.CreateTransaction(c.Request.Context(), req.Email, req.Amount)
	if err != nil {
		respondError(c, "Error creating transaction", err)
		return
	}

	c.JSON(http.StatusOK, models.CreateTransactionResponse{Token: token})
}

func (h *PaymentHandler) MidtransNotification(c *gin.Context) {
	var notification models.Notification
	if err := c.ShouldBindJSON(&notification); err != nil {
		telemetry.Logger.Warn("Malformed notification", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification"})
		return
	}

	outcome, err := h.notifications.HandleNotification(c.Request.Context(), &notification)
	if err != nil {
		respondError(c, "Error handling Midtrans notification", err)
		return
	}

	telemetry.Logger.Info("Notification acknowledged",
		zap.String("order_id", notification.OrderID),
		zap.String("outcome", string(outcome)),
	)
	c.String(http.StatusOK, "OK")
}

// respondError logs the full error and sends the caller only a generic message.
func respondError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		telemetry.Logger.Warn(msg, zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, models.ErrValidation):
		telemetry.Logger.Warn(msg, zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	default:
		telemetry.Logger.Error(msg,
			zap.Error(err),
			zap.String("trace_id", telemetry.TraceID(c.Request.Context())),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
