package postgres

import (
	"context"
	"testing"
	"time"

	"campus-reserve-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestApprovalRepository_Decide(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewApprovalRepository(db)
	ctx := context.Background()

	t.Run("First Decision Wins", func(t *testing.T) {
		mock.ExpectExec("UPDATE approval_cases").
			WithArgs(int64(1), domain.ApprovalStatusApproved, int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		won, err := repo.Decide(ctx, 1, domain.ApprovalStatusApproved, 99)
		assert.NoError(t, err)
		assert.True(t, won)
	})

	t.Run("Already Resolved", func(t *testing.T) {
		mock.ExpectExec("UPDATE approval_cases").
			WithArgs(int64(1), domain.ApprovalStatusRejected, int64(100)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		won, err := repo.Decide(ctx, 1, domain.ApprovalStatusRejected, 100)
		assert.NoError(t, err)
		assert.False(t, won)
	})
}

func TestApprovalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewApprovalRepository(db)
	ctx := context.Background()

	reservationID := int64(42)
	ac := &domain.ApprovalCase{
		Kind:          domain.ApprovalKindBoothApplication,
		HolderID:      7,
		ReservationID: &reservationID,
		Status:        domain.ApprovalStatusPending,
		Note:          "crafts stall",
	}

	mock.ExpectQuery("INSERT INTO approval_cases").
		WithArgs(ac.Kind, ac.HolderID, ac.ReservationID, ac.Status, ac.Note).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(1, time.Now()))

	err = repo.Create(ctx, ac)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), ac.ID)
}

func TestApprovalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewApprovalRepository(db)
	ctx := context.Background()

	columns := []string{"id", "kind", "holder_id", "reservation_id", "status", "note",
		"decided_by", "decided_on", "created_on"}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM approval_cases").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, "BOOTH_APPLICATION", 7, 42, "PENDING", "crafts stall", nil, nil, time.Now()))

		ac, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.ApprovalStatusPending, ac.Status)
		assert.Equal(t, int64(42), *ac.ReservationID)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM approval_cases").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(columns))

		ac, err := repo.GetByID(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrCaseNotFound)
		assert.Nil(t, ac)
	})
}
