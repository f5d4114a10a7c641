package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultCreated    = "created"
	ResultValidation = "validation"

	OutcomeCredited  = "credited"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

var (
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_transactions_total",
		Help: "Transactions requested from the payment gateway, by result.",
	}, []string{"result"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_notifications_total",
		Help: "Gateway notifications processed, by outcome.",
	}, []string{"outcome"})

	CreditedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_credited_amount_total",
		Help: "Sum of amounts credited to customer balances.",
	})
)
