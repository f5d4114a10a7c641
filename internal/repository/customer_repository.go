package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/akylbek/payment-relay/internal/models"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			username VARCHAR(255) NOT NULL DEFAULT '',
			balance DECIMAL(20,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS applied_orders (
			order_id VARCHAR(255) PRIMARY KEY,
			customer_id VARCHAR(255) NOT NULL REFERENCES customers(id),
			amount DECIMAL(20,2) NOT NULL,
			balance_after DECIMAL(20,2) NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applied_orders_customer_id ON applied_orders(customer_id)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, email, username, balance)
		VALUES ($1, $2, $3, $4)
	`, customer.ID, customer.Email, customer.Username, customer.Balance)
	return err
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, username, balance, created_at
		FROM customers WHERE email = $1
	`, email).Scan(&customer.ID, &customer.Email, &customer.Username, &customer.Balance, &customer.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// IsApplied reports whether a credit for orderID has already been recorded.
func (r *CustomerRepository) IsApplied(ctx context.Context, orderID string) (bool, error) {
	var applied bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM applied_orders WHERE order_id = $1)
	`, orderID).Scan(&applied)
	return applied, err
}

// UpdateBalance records the order as applied and swaps the balance from
// update.Previous to update.New in one transaction. ErrConflict means the order
// was applied before; ErrBalanceChanged means Previous is stale.
func (r *CustomerRepository) UpdateBalance(ctx context.Context, update models.BalanceUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO applied_orders (order_id, customer_id, amount, balance_after)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING
	`, update.OrderID, update.CustomerID, update.Amount, update.New)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err != nil {
		return err
	} else if rows == 0 {
		return models.ErrConflict
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE customers SET balance = $1, updated_at = NOW()
		WHERE id = $2 AND balance = $3
	`, update.New, update.CustomerID, update.Previous)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err != nil {
		return err
	} else if rows == 0 {
		return models.ErrBalanceChanged
	}

	return tx.Commit()
}
