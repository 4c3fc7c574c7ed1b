// Package payment holds the settlement rails a reservation can be paid
// through. The orchestrator picks a rail by the reservation's stored method
// and otherwise treats settlement uniformly through the Settler interface.
package payment

import (
	"context"
	"time"

	"campus-reserve-backend/internal/domain"
)

// Receipt is the settlement adapter's proof of successful payment, identical
// across rails.
type Receipt struct {
	Reference   string    `json:"reference"`
	AmountCents int64     `json:"amount_cents"`
	SettledAt   time.Time `json:"settled_at"`
}

// Result is the outcome of beginning settlement. A synchronous rail completes
// immediately and carries a Receipt; an asynchronous rail carries only the
// payment reference the later confirmation must come back with.
type Result struct {
	Receipt      *Receipt
	PaymentRef   string
	ClientSecret string // card rail only, handed to the holder's browser
}

// Settled reports whether settlement completed synchronously.
func (r *Result) Settled() bool {
	return r.Receipt != nil
}

type Settler interface {
	Method() domain.PaymentMethod

	// Begin starts settlement for a reserved amount. Failures surface as
	// domain.ErrInsufficientFunds, domain.ErrCardDeclined or
	// domain.ErrIntentExpired.
	Begin(ctx context.Context, rsv *domain.Reservation) (*Result, error)

	// Refund compensates a previously settled reservation. Rails without a
	// reversal protocol record the gap and return nil rather than failing
	// the cancellation.
	Refund(ctx context.Context, rsv *domain.Reservation) error
}
