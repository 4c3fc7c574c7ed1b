package service

import (
	"context"
	"testing"

	"campus-reserve-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWalletService_TopUp(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		walletRepo := new(MockWalletRepo)
		svc := NewWalletService(walletRepo)

		walletRepo.On("CreateAccount", ctx, int64(7)).Return(nil)
		walletRepo.On("Credit", ctx, mock.AnythingOfType("*domain.WalletEntry")).Return(nil)

		entry, err := svc.TopUp(ctx, 99, 7, 5000, "semester allowance")
		assert.NoError(t, err)
		assert.Equal(t, domain.WalletEntryTopUp, entry.Type)
		assert.Equal(t, int64(5000), entry.AmountCents)
		assert.NotEmpty(t, entry.Reference)
	})

	t.Run("Rejects Non-Positive Amount", func(t *testing.T) {
		walletRepo := new(MockWalletRepo)
		svc := NewWalletService(walletRepo)

		entry, err := svc.TopUp(ctx, 99, 7, 0, "")
		assert.Error(t, err)
		assert.Nil(t, entry)
		walletRepo.AssertNotCalled(t, "Credit", ctx, mock.Anything)
	})
}

func TestWalletService_GetBalance(t *testing.T) {
	ctx := context.Background()
	walletRepo := new(MockWalletRepo)
	svc := NewWalletService(walletRepo)

	t.Run("Success", func(t *testing.T) {
		walletRepo.On("GetAccount", ctx, int64(7)).Return(&domain.WalletAccount{HolderID: 7, BalanceCents: 1200}, nil)

		balance, err := svc.GetBalance(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(1200), balance)
	})

	t.Run("Missing Account", func(t *testing.T) {
		walletRepo.On("GetAccount", ctx, int64(8)).Return(nil, domain.ErrWalletNotFound)

		_, err := svc.GetBalance(ctx, 8)
		assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	})
}
