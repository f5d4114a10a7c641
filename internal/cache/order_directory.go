package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OrderDirectory maps gateway order ids to the email of the customer who started
// them. Entries are written before the gateway sees the order.
type OrderDirectory struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewOrderDirectory(redisClient *redis.Client, ttl time.Duration) *OrderDirectory {
	return &OrderDirectory{redisClient: redisClient, ttl: ttl}
}

func (d *OrderDirectory) key(orderID string) string {
	return fmt.Sprintf("order:%s:email", orderID)
}

func (d *OrderDirectory) Remember(ctx context.Context, orderID, email string) error {
	return d.redisClient.Set(ctx, d.key(orderID), email, d.ttl).Err()
}

// Lookup returns an empty string when the order is unknown or has expired.
func (d *OrderDirectory) Lookup(ctx context.Context, orderID string) (string, error) {
	email, err := d.redisClient.Get(ctx, d.key(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
