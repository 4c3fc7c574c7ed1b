package postgres

import (
	"context"
	"testing"
	"time"

	"campus-reserve-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestReservationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()

	rsv := &domain.Reservation{
		ResourceID:  1,
		HolderID:    7,
		Quantity:    1,
		State:       domain.ReservationStateReserved,
		Method:      domain.PaymentMethodWallet,
		AmountCents: 1500,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO reservations").
			WithArgs(rsv.ResourceID, rsv.HolderID, rsv.Quantity, rsv.State, rsv.Method, rsv.AmountCents).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(5, time.Now()))

		err := repo.Create(ctx, rsv)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), rsv.ID)
	})

	t.Run("Duplicate Live Reservation", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO reservations").
			WithArgs(rsv.ResourceID, rsv.HolderID, rsv.Quantity, rsv.State, rsv.Method, rsv.AmountCents).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, rsv)
		assert.ErrorIs(t, err, domain.ErrDuplicateReservation)
	})
}

func TestReservationRepository_TransitionState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Won", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(int64(5), domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement).
			WillReturnResult(sqlmock.NewResult(0, 1))

		won, err := repo.TransitionState(ctx, 5, domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement)
		assert.NoError(t, err)
		assert.True(t, won)
	})

	t.Run("Lost To Concurrent Transition", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(int64(5), domain.ReservationStateAwaitingSettlement, domain.ReservationStateConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		won, err := repo.TransitionState(ctx, 5, domain.ReservationStateAwaitingSettlement, domain.ReservationStateConfirmed)
		assert.NoError(t, err)
		assert.False(t, won)
	})
}

func TestReservationRepository_GetLive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()

	columns := []string{"id", "resource_id", "holder_id", "quantity", "state", "method",
		"payment_ref", "amount_cents", "created_on", "resolved_on"}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations").
			WithArgs(int64(1), int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(5, 1, 7, 1, "RESERVED", "WALLET", nil, 1500, time.Now(), nil))

		rsv, err := repo.GetLive(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), rsv.ID)
		assert.Equal(t, domain.ReservationStateReserved, rsv.State)
	})

	t.Run("None Live", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations").
			WithArgs(int64(1), int64(7)).
			WillReturnRows(sqlmock.NewRows(columns))

		rsv, err := repo.GetLive(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Nil(t, rsv)
	})
}

func TestReservationRepository_ListAwaitingSettlementBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()
	cutoff := time.Now().Add(-30 * time.Minute)

	columns := []string{"id", "resource_id", "holder_id", "quantity", "state", "method",
		"payment_ref", "amount_cents", "created_on", "resolved_on"}

	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WithArgs(cutoff, int32(200)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(5, 1, 7, 1, "AWAITING_SETTLEMENT", "CARD", "pi_1", 2500, cutoff.Add(-time.Hour), nil).
			AddRow(6, 2, 8, 1, "AWAITING_SETTLEMENT", "CARD", "pi_2", 1000, cutoff.Add(-time.Minute), nil))

	stale, err := repo.ListAwaitingSettlementBefore(ctx, cutoff, 200)
	assert.NoError(t, err)
	assert.Len(t, stale, 2)
	assert.Equal(t, domain.ReservationStateAwaitingSettlement, stale[0].State)
}
