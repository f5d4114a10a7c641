package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akylbek/payment-relay/internal/models"
	"github.com/akylbek/payment-relay/internal/telemetry"
)

type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type statusAPI interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// OrderDirectory resolves which customer an order belongs to.
type OrderDirectory interface {
	Remember(ctx context.Context, orderID, email string) error
	Lookup(ctx context.Context, orderID string) (string, error)
}

type MidtransGateway struct {
	serverKey string
	snap      snapAPI
	status    statusAPI
	orders    OrderDirectory
}

func NewMidtransGateway(serverKey string, production bool, orders OrderDirectory) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(serverKey, env)

	var coreClient coreapi.Client
	coreClient.New(serverKey, env)

	return &MidtransGateway{
		serverKey: serverKey,
		snap:      &snapClient,
		status:    &coreClient,
		orders:    orders,
	}
}

func (g *MidtransGateway) CreateTransaction(ctx context.Context, orderID string, amount decimal.Decimal, customer *models.Customer) (string, error) {
	if err := g.orders.Remember(ctx, orderID, customer.Email); err != nil {
		return "", fmt.Errorf("remember order %s: %w", orderID, err)
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount.IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Username,
			Email: customer.Email,
		},
	}

	resp, merr := g.snap.CreateTransaction(req)
	if merr != nil {
		return "", fmt.Errorf("%w: create transaction %s: status %d: %s", models.ErrUpstream, orderID, merr.StatusCode, merr.Message)
	}
	if resp == nil || resp.Token == "" {
		return "", fmt.Errorf("%w: create transaction %s: empty token", models.ErrUpstream, orderID)
	}

	return resp.Token, nil
}

// VerifyNotification checks the callback signature, then asks Midtrans for the
// current state of the order. Only the gateway's answer is returned.
func (g *MidtransGateway) VerifyNotification(ctx context.Context, notification *models.Notification) (*models.Verification, error) {
	expected := Signature(notification.OrderID, notification.StatusCode, notification.GrossAmount, g.serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(notification.SignatureKey)) != 1 {
		return nil, fmt.Errorf("%w: invalid signature for order %s", models.ErrValidation, notification.OrderID)
	}

	status, merr := g.status.CheckTransaction(notification.OrderID)
	if merr != nil {
		return nil, fmt.Errorf("%w: check transaction %s: status %d: %s", models.ErrUpstream, notification.OrderID, merr.StatusCode, merr.Message)
	}
	if status == nil {
		return nil, fmt.Errorf("%w: check transaction %s: empty response", models.ErrUpstream, notification.OrderID)
	}
	if status.OrderID != "" && status.OrderID != notification.OrderID {
		return nil, fmt.Errorf("%w: status for %s returned order %s", models.ErrUpstream, notification.OrderID, status.OrderID)
	}

	gross, err := decimal.NewFromString(status.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: gross amount %q: %v", models.ErrUpstream, status.GrossAmount, err)
	}

	email, err := g.orders.Lookup(ctx, notification.OrderID)
	if err != nil {
		return nil, fmt.Errorf("lookup order %s: %w", notification.OrderID, err)
	}
	if email == "" {
		telemetry.Logger.Warn("Order not found in directory",
			zap.String("order_id", notification.OrderID),
		)
	}

	return &models.Verification{
		OrderID:           notification.OrderID,
		TransactionStatus: status.TransactionStatus,
		FraudStatus:       status.FraudStatus,
		GrossAmount:       gross,
		CustomerEmail:     email,
	}, nil
}

// Signature computes the Midtrans notification signature:
// hex(SHA512(order_id + status_code + gross_amount + server_key)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
