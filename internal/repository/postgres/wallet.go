package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/repository"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) CreateAccount(ctx context.Context, holderID int64) error {
	query := `INSERT INTO wallet_accounts (holder_id, balance_cents, created_on, updated_on)
	          VALUES ($1, 0, NOW(), NOW()) ON CONFLICT (holder_id) DO NOTHING`
	_, err := q(ctx, r.db).ExecContext(ctx, query, holderID)
	return err
}

func (r *walletRepository) GetAccount(ctx context.Context, holderID int64) (*domain.WalletAccount, error) {
	acct := &domain.WalletAccount{}
	query := `SELECT holder_id, balance_cents, created_on, updated_on FROM wallet_accounts WHERE holder_id = $1`
	err := q(ctx, r.db).QueryRowContext(ctx, query, holderID).
		Scan(&acct.HolderID, &acct.BalanceCents, &acct.CreatedOn, &acct.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Debit decrements the balance and appends the ledger entry in one
// transaction. The balance guard is part of the UPDATE's WHERE clause, so a
// shortage can never overdraw regardless of concurrent debits. A reservation
// is debited at most once: a retry finds the earlier DEBIT line and adopts it
// instead of moving money again, with the partial unique index on
// wallet_entries as the authoritative guard against concurrent retries.
func (r *walletRepository) Debit(ctx context.Context, entry *domain.WalletEntry) error {
	amount := entry.AmountCents
	if amount > 0 {
		amount = -amount
	}
	txErr := withTx(ctx, r.db, func(txCtx context.Context) error {
		if entry.ReservationID != nil {
			prior, err := r.findDebit(txCtx, *entry.ReservationID)
			if err != nil {
				return err
			}
			if prior != nil {
				*entry = *prior
				return nil
			}
		}
		res, err := q(txCtx, r.db).ExecContext(txCtx,
			`UPDATE wallet_accounts SET balance_cents = balance_cents + $2, updated_on = NOW()
			 WHERE holder_id = $1 AND balance_cents + $2 >= 0`, entry.HolderID, amount)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var exists bool
			if err := q(txCtx, r.db).QueryRowContext(txCtx,
				`SELECT EXISTS(SELECT 1 FROM wallet_accounts WHERE holder_id = $1)`, entry.HolderID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domain.ErrWalletNotFound
			}
			return domain.ErrInsufficientFunds
		}
		entry.AmountCents = amount
		return r.appendEntry(txCtx, entry)
	})
	if isUniqueViolation(txErr) && entry.ReservationID != nil {
		// A concurrent debit for the same reservation won the index; its
		// ledger line is the one that holds the money.
		prior, err := r.findDebit(ctx, *entry.ReservationID)
		if err != nil {
			return err
		}
		if prior != nil {
			*entry = *prior
			return nil
		}
	}
	return txErr
}

func (r *walletRepository) findDebit(ctx context.Context, reservationID int64) (*domain.WalletEntry, error) {
	e := &domain.WalletEntry{}
	query := `SELECT id, holder_id, amount_cents, type, reservation_id, reference, COALESCE(description, ''), created_on
	          FROM wallet_entries WHERE reservation_id = $1 AND type = 'DEBIT'`
	err := q(ctx, r.db).QueryRowContext(ctx, query, reservationID).
		Scan(&e.ID, &e.HolderID, &e.AmountCents, &e.Type, &e.ReservationID, &e.Reference, &e.Description, &e.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *walletRepository) Credit(ctx context.Context, entry *domain.WalletEntry) error {
	if entry.AmountCents < 0 {
		entry.AmountCents = -entry.AmountCents
	}
	return withTx(ctx, r.db, func(txCtx context.Context) error {
		res, err := q(txCtx, r.db).ExecContext(txCtx,
			`UPDATE wallet_accounts SET balance_cents = balance_cents + $2, updated_on = NOW()
			 WHERE holder_id = $1`, entry.HolderID, entry.AmountCents)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrWalletNotFound
		}
		return r.appendEntry(txCtx, entry)
	})
}

func (r *walletRepository) appendEntry(ctx context.Context, entry *domain.WalletEntry) error {
	query := `INSERT INTO wallet_entries (holder_id, amount_cents, type, reservation_id, reference, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id, created_on`
	return q(ctx, r.db).QueryRowContext(ctx, query,
		entry.HolderID, entry.AmountCents, entry.Type, entry.ReservationID, entry.Reference, entry.Description).
		Scan(&entry.ID, &entry.CreatedOn)
}

func (r *walletRepository) ListEntries(ctx context.Context, holderID int64, page, pageSize int32) ([]domain.WalletEntry, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT count(*) FROM wallet_entries WHERE holder_id = $1`, holderID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, holder_id, amount_cents, type, reservation_id, reference, COALESCE(description, ''), created_on
	          FROM wallet_entries WHERE holder_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, holderID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.WalletEntry
	for rows.Next() {
		var e domain.WalletEntry
		if err := rows.Scan(&e.ID, &e.HolderID, &e.AmountCents, &e.Type, &e.ReservationID, &e.Reference, &e.Description, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}
