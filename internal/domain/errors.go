package domain

import "errors"

// Caller-facing outcomes of the registration and settlement engine. All of
// these are recoverable conditions, not defects; the transport layer maps
// each to a specific status and message.
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrCapacityExhausted     = errors.New("capacity exhausted")
	ErrDeadlinePassed        = errors.New("registration deadline has passed")
	ErrDuplicateReservation  = errors.New("a reservation already exists for this holder")
	ErrPaymentMethodRequired = errors.New("payment method required for priced resource")
	ErrInsufficientFunds     = errors.New("insufficient wallet funds")
	ErrCardDeclined          = errors.New("card declined")
	ErrIntentExpired         = errors.New("payment intent expired")
	ErrCaseNotFound          = errors.New("approval case not found")
	ErrAlreadyResolved       = errors.New("case already resolved")
	ErrInvalidState          = errors.New("operation not permitted in current state")
	ErrWalletNotFound        = errors.New("wallet account not found")
)
