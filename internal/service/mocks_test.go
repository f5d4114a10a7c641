package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-relay/internal/models"
)

// memoryCustomers mirrors the Postgres repository semantics: an applied-order
// ledger plus a compare-and-swap on the balance.
type memoryCustomers struct {
	mu         sync.Mutex
	byEmail    map[string]*models.Customer
	applied    map[string]string
	writes     int
	FindErr    error
	UpdateErr  error
	AppliedErr error
	// BeforeUpdate runs inside UpdateBalance before the swap, with the lock released.
	BeforeUpdate func()
}

func newMemoryCustomers(customers ...*models.Customer) *memoryCustomers {
	m := &memoryCustomers{
		byEmail: map[string]*models.Customer{},
		applied: map[string]string{},
	}
	for _, c := range customers {
		m.byEmail[c.Email] = c
	}
	return m
}

func (m *memoryCustomers) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	c, ok := m.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memoryCustomers) UpdateBalance(_ context.Context, update models.BalanceUpdate) error {
	if m.BeforeUpdate != nil {
		hook := m.BeforeUpdate
		m.BeforeUpdate = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.applied[update.OrderID]; ok {
		return models.ErrConflict
	}

	var target *models.Customer
	for _, c := range m.byEmail {
		if c.ID == update.CustomerID {
			target = c
		}
	}
	if target == nil {
		return models.ErrNotFound
	}
	if !target.Balance.Equal(update.Previous) {
		return models.ErrBalanceChanged
	}

	target.Balance = update.New
	m.applied[update.OrderID] = update.CustomerID
	m.writes++
	return nil
}

func (m *memoryCustomers) IsApplied(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppliedErr != nil {
		return false, m.AppliedErr
	}
	_, ok := m.applied[orderID]
	return ok, nil
}

func (m *memoryCustomers) balance(email string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byEmail[email].Balance
}

func (m *memoryCustomers) setBalance(email string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[email].Balance = balance
}

func (m *memoryCustomers) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type mockGateway struct {
	mu         sync.Mutex
	CreateFunc func(ctx context.Context, orderID string, amount decimal.Decimal, customer *models.Customer) (string, error)
	VerifyFunc func(ctx context.Context, n *models.Notification) (*models.Verification, error)
	OrderIDs   []string
}

func (m *mockGateway) CreateTransaction(ctx context.Context, orderID string, amount decimal.Decimal, customer *models.Customer) (string, error) {
	m.mu.Lock()
	m.OrderIDs = append(m.OrderIDs, orderID)
	m.mu.Unlock()

	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, orderID, amount, customer)
	}
	return "token-" + orderID, nil
}

func (m *mockGateway) VerifyNotification(ctx context.Context, n *models.Notification) (*models.Verification, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, n)
	}
	return nil, models.ErrUpstream
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.BalanceCreditedEvent
	Err    error
}

func (p *recordingPublisher) PublishBalanceCredited(_ context.Context, event *models.BalanceCreditedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
