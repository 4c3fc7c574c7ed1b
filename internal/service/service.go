package service

import (
	"context"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/payment"
)

// SettlementOutcome is what Settle hands back: the updated reservation plus,
// depending on the rail, either a receipt (synchronous settlement) or the
// client secret the holder's browser finishes the card flow with.
type SettlementOutcome struct {
	Reservation  *domain.Reservation
	Receipt      *payment.Receipt
	ClientSecret string
}

type RegistrationService interface {
	// Submit validates, checks for a live duplicate and reserves capacity in
	// one atomic unit. Retrying while the reservation is RESERVED or
	// AWAITING_SETTLEMENT returns the existing reservation.
	Submit(ctx context.Context, resourceID, holderID int64, quantity int32, method domain.PaymentMethod) (*domain.Reservation, error)

	// Settle collects payment for a RESERVED reservation. Free reservations
	// confirm immediately; wallet debits synchronously; card starts an
	// intent. Any failure releases the capacity hold before surfacing.
	Settle(ctx context.Context, holderID, reservationID int64) (*SettlementOutcome, error)

	// ConfirmCardPayment is the asynchronous re-entry point for the card
	// rail (redirect callback or processor webhook), keyed by intent id.
	ConfirmCardPayment(ctx context.Context, intentID string) (*domain.Reservation, error)

	// Cancel releases capacity from any non-terminal state and refunds the
	// wallet when a wallet receipt exists. Cancelling a terminal
	// reservation is a no-op.
	Cancel(ctx context.Context, holderID, reservationID int64) (*domain.Reservation, error)

	// ExpireStaleSettlements releases reservations abandoned mid card flow.
	// Returns how many were expired.
	ExpireStaleSettlements(ctx context.Context) (int, error)

	GetReservation(ctx context.Context, holderID, reservationID int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context, holderID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListResourceReservations(ctx context.Context, resourceID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListTransitions(ctx context.Context, reservationID int64) ([]domain.Transition, error)
}

type ApprovalService interface {
	// SubmitBoothApplication reserves the booth slot speculatively and opens
	// a PENDING case for the administrator.
	SubmitBoothApplication(ctx context.Context, resourceID, holderID int64, note string) (*domain.ApprovalCase, *domain.Reservation, error)
	// SubmitAccountVerification opens a PENDING case with no capacity claim.
	SubmitAccountVerification(ctx context.Context, holderID int64, note string) (*domain.ApprovalCase, error)

	// Approve and Reject are settable exactly once. Repeating the decision
	// already taken is a no-op; the opposite decision on a resolved case
	// returns domain.ErrAlreadyResolved.
	Approve(ctx context.Context, adminID, caseID int64) (*domain.ApprovalCase, error)
	Reject(ctx context.Context, adminID, caseID int64) (*domain.ApprovalCase, error)

	GetCase(ctx context.Context, caseID int64) (*domain.ApprovalCase, error)
	ListPending(ctx context.Context, kind string, page, pageSize int32) ([]domain.ApprovalCase, int32, error)
	ListByHolder(ctx context.Context, holderID int64) ([]domain.ApprovalCase, error)
}

type WalletService interface {
	GetBalance(ctx context.Context, holderID int64) (int64, error)
	ListEntries(ctx context.Context, holderID int64, page, pageSize int32) ([]domain.WalletEntry, int32, error)
	// TopUp credits a holder's balance; administrator operation.
	TopUp(ctx context.Context, adminID, holderID, amountCents int64, description string) (*domain.WalletEntry, error)
}

type ResourceService interface {
	CreateResource(ctx context.Context, res *domain.CapacityResource) error
	GetResource(ctx context.Context, id int64) (*domain.CapacityResource, error)
	ListResources(ctx context.Context, kind string, page, pageSize int32) ([]domain.CapacityResource, int32, error)
	ArchiveResource(ctx context.Context, id int64) error
}
