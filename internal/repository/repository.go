package repository

import (
	"context"
	"time"

	"campus-reserve-backend/internal/domain"
)

type ResourceRepository interface {
	Create(ctx context.Context, res *domain.CapacityResource) error
	GetByID(ctx context.Context, id int64) (*domain.CapacityResource, error)
	List(ctx context.Context, kind string, page, pageSize int32) ([]domain.CapacityResource, int32, error)
	Archive(ctx context.Context, id int64) error

	// TryReserve performs the compare-and-increment on reserved_count as a
	// single conditional update. On refusal it returns ErrCapacityExhausted,
	// ErrDeadlinePassed or ErrResourceNotFound.
	TryReserve(ctx context.Context, resourceID int64, quantity int32) error
	// Release is the compensating decrement, clamped at zero.
	Release(ctx context.Context, resourceID int64, quantity int32) error
}

type ReservationRepository interface {
	// WithTx runs fn inside one database transaction; nested calls join the
	// outer transaction. Repository methods called with the context passed
	// to fn execute on that transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Create inserts a new reservation. A live reservation for the same
	// (resource, holder) pair trips the partial unique index and is surfaced
	// as domain.ErrDuplicateReservation.
	Create(ctx context.Context, rsv *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	// GetLive returns the non-terminal reservation for (resource, holder),
	// or nil when none exists.
	GetLive(ctx context.Context, resourceID, holderID int64) (*domain.Reservation, error)
	GetByPaymentRef(ctx context.Context, ref string) (*domain.Reservation, error)

	// TransitionState moves id from exactly `from` to `to` and reports
	// whether this caller won the update. A false return means a concurrent
	// transition got there first; callers treat that as a no-op.
	TransitionState(ctx context.Context, id int64, from, to domain.ReservationState) (bool, error)
	SetSettlement(ctx context.Context, id int64, paymentRef string, amountCents int64) error

	RecordTransition(ctx context.Context, tr *domain.Transition) error
	ListTransitions(ctx context.Context, reservationID int64) ([]domain.Transition, error)

	ListByHolder(ctx context.Context, holderID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListByResource(ctx context.Context, resourceID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error)
	// ListAwaitingSettlementBefore returns reservations stuck in
	// AWAITING_SETTLEMENT since before cutoff, for the expiry sweep.
	ListAwaitingSettlementBefore(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Reservation, error)
}

type WalletRepository interface {
	CreateAccount(ctx context.Context, holderID int64) error
	GetAccount(ctx context.Context, holderID int64) (*domain.WalletAccount, error)

	// Debit atomically decrements the balance and appends the ledger entry.
	// A balance below the debit amount fails with domain.ErrInsufficientFunds
	// and writes nothing.
	Debit(ctx context.Context, entry *domain.WalletEntry) error
	// Credit atomically increments the balance and appends the ledger entry.
	Credit(ctx context.Context, entry *domain.WalletEntry) error

	ListEntries(ctx context.Context, holderID int64, page, pageSize int32) ([]domain.WalletEntry, int32, error)
}

type ApprovalRepository interface {
	Create(ctx context.Context, ac *domain.ApprovalCase) error
	GetByID(ctx context.Context, id int64) (*domain.ApprovalCase, error)
	// Decide flips a PENDING case to status and reports whether this caller
	// won; false means the case was already resolved.
	Decide(ctx context.Context, id int64, status domain.ApprovalStatus, adminID int64) (bool, error)
	ListPending(ctx context.Context, kind string, page, pageSize int32) ([]domain.ApprovalCase, int32, error)
	ListByHolder(ctx context.Context, holderID int64) ([]domain.ApprovalCase, error)
}
