package service

import (
	"context"
	"fmt"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/logger"
	"campus-reserve-backend/internal/repository"

	"github.com/google/uuid"
)

type walletService struct {
	walletRepo repository.WalletRepository
}

func NewWalletService(walletRepo repository.WalletRepository) WalletService {
	return &walletService{walletRepo: walletRepo}
}

func (s *walletService) GetBalance(ctx context.Context, holderID int64) (int64, error) {
	acct, err := s.walletRepo.GetAccount(ctx, holderID)
	if err != nil {
		return 0, err
	}
	return acct.BalanceCents, nil
}

func (s *walletService) ListEntries(ctx context.Context, holderID int64, page, pageSize int32) ([]domain.WalletEntry, int32, error) {
	return s.walletRepo.ListEntries(ctx, holderID, page, pageSize)
}

func (s *walletService) TopUp(ctx context.Context, adminID, holderID, amountCents int64, description string) (*domain.WalletEntry, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("top-up amount must be positive")
	}

	// First top-up also provisions the account.
	if err := s.walletRepo.CreateAccount(ctx, holderID); err != nil {
		return nil, err
	}

	entry := &domain.WalletEntry{
		HolderID:    holderID,
		AmountCents: amountCents,
		Type:        domain.WalletEntryTopUp,
		Reference:   "top_" + uuid.NewString(),
		Description: description,
	}
	if err := s.walletRepo.Credit(ctx, entry); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "wallet topped up",
		"holder_id", holderID, "amount_cents", amountCents, "admin_id", adminID)
	return entry, nil
}
