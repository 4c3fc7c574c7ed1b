package postgres

import (
	"context"
	"testing"
	"time"

	"campus-reserve-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestResourceRepository_TryReserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewResourceRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE capacity_resources").
			WithArgs(int64(1), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TryReserve(ctx, 1, 2)
		assert.NoError(t, err)
	})

	t.Run("Capacity Exhausted", func(t *testing.T) {
		mock.ExpectExec("UPDATE capacity_resources").
			WithArgs(int64(1), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT total_capacity, reserved_count, deadline, archived FROM capacity_resources").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"total_capacity", "reserved_count", "deadline", "archived"}).
				AddRow(10, 9, nil, false))

		err := repo.TryReserve(ctx, 1, 2)
		assert.ErrorIs(t, err, domain.ErrCapacityExhausted)
	})

	t.Run("Deadline Passed", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		mock.ExpectExec("UPDATE capacity_resources").
			WithArgs(int64(1), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT total_capacity, reserved_count, deadline, archived FROM capacity_resources").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"total_capacity", "reserved_count", "deadline", "archived"}).
				AddRow(10, 0, past, false))

		err := repo.TryReserve(ctx, 1, 1)
		assert.ErrorIs(t, err, domain.ErrDeadlinePassed)
	})

	t.Run("Missing Resource", func(t *testing.T) {
		mock.ExpectExec("UPDATE capacity_resources").
			WithArgs(int64(9), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT total_capacity, reserved_count, deadline, archived FROM capacity_resources").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"total_capacity", "reserved_count", "deadline", "archived"}))

		err := repo.TryReserve(ctx, 9, 1)
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})
}

func TestResourceRepository_Release(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewResourceRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE capacity_resources").
			WithArgs(int64(1), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Release(ctx, 1, 2)
		assert.NoError(t, err)
	})

	t.Run("Missing Resource", func(t *testing.T) {
		mock.ExpectExec("UPDATE capacity_resources").
			WithArgs(int64(9), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Release(ctx, 9, 2)
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})
}

func TestResourceRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewResourceRepository(db)
	ctx := context.Background()

	res := &domain.CapacityResource{
		Kind:           domain.ResourceKindGymSession,
		Name:           "Morning swim",
		UnitPriceCents: 500,
	}

	mock.ExpectQuery("INSERT INTO capacity_resources").
		WithArgs(res.Kind, res.Name, res.TotalCapacity, res.Deadline, res.UnitPriceCents).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on", "updated_on"}).
			AddRow(3, time.Now(), time.Now()))

	err = repo.Create(ctx, res)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), res.ID)
}
