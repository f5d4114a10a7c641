package interfaces

import (
	"context"

	"github.com/akylbek/payment-relay/internal/models"
)

type EventPublisher interface {
	PublishBalanceCredited(ctx context.Context, event *models.BalanceCreditedEvent) error
}
