package models

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrUpstream       = errors.New("payment gateway error")
	ErrConflict       = errors.New("order already applied")
	ErrBalanceChanged = errors.New("balance changed concurrently")
)
