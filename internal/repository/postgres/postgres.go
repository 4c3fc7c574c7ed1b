package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campus-reserve-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ResourceRepository
	repository.ReservationRepository
	repository.WalletRepository
	repository.ApprovalRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ResourceRepository:    NewResourceRepository(db),
		ReservationRepository: NewReservationRepository(db),
		WalletRepository:      NewWalletRepository(db),
		ApprovalRepository:    NewApprovalRepository(db),
	}
}

// querier is the subset of *sql.DB and *sql.Tx the repositories use, so a
// method runs on the ambient transaction when one is carried in the context.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

func q(ctx context.Context, db *sql.DB) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
