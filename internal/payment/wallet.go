package payment

import (
	"context"
	"fmt"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/repository"

	"github.com/google/uuid"
)

// walletSettler debits the holder's prepaid balance. Settlement is
// synchronous and never partial: the repository's conditional update either
// moves the full amount or fails with ErrInsufficientFunds.
type walletSettler struct {
	walletRepo repository.WalletRepository
}

func NewWalletSettler(walletRepo repository.WalletRepository) Settler {
	return &walletSettler{walletRepo: walletRepo}
}

func (s *walletSettler) Method() domain.PaymentMethod {
	return domain.PaymentMethodWallet
}

func (s *walletSettler) Begin(ctx context.Context, rsv *domain.Reservation) (*Result, error) {
	ref := "wal_" + uuid.NewString()
	entry := &domain.WalletEntry{
		HolderID:      rsv.HolderID,
		AmountCents:   rsv.AmountCents,
		Type:          domain.WalletEntryDebit,
		ReservationID: &rsv.ID,
		Reference:     ref,
		Description:   fmt.Sprintf("Payment for reservation %d", rsv.ID),
	}
	if err := s.walletRepo.Debit(ctx, entry); err != nil {
		return nil, err
	}
	// The repository debits each reservation at most once. On a retry the
	// entry comes back as the original ledger line, so its reference is the
	// one to report, not the freshly generated one.
	return &Result{
		PaymentRef: entry.Reference,
		Receipt: &Receipt{
			Reference:   entry.Reference,
			AmountCents: rsv.AmountCents,
			SettledAt:   entry.CreatedOn,
		},
	}, nil
}

func (s *walletSettler) Refund(ctx context.Context, rsv *domain.Reservation) error {
	entry := &domain.WalletEntry{
		HolderID:      rsv.HolderID,
		AmountCents:   rsv.AmountCents,
		Type:          domain.WalletEntryCredit,
		ReservationID: &rsv.ID,
		Reference:     "ref_" + uuid.NewString(),
		Description:   fmt.Sprintf("Refund for reservation %d", rsv.ID),
	}
	return s.walletRepo.Credit(ctx, entry)
}
