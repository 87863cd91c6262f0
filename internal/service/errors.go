package service

import "errors"

// Domain guard and validation errors surfaced to the HTTP layer.
// The guard messages are user-facing and returned verbatim.
var (
	ErrInsufficientCash        = errors.New("Insufficient Cash to Buy")
	ErrInsufficientEquity      = errors.New("Insufficient Equity to Sell")
	ErrInsufficientFixedIncome = errors.New("Insufficient Fixed Income to Sell")
	ErrInvalidPosition         = errors.New("invalid position")
	ErrInvalidStockType        = errors.New("invalid stock type")
	ErrInvalidAmount           = errors.New("settlement amount must be at least 1")
)
