package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/repository"
)

type approvalRepository struct {
	db *sql.DB
}

func NewApprovalRepository(db *sql.DB) repository.ApprovalRepository {
	return &approvalRepository{db: db}
}

const approvalColumns = `id, kind, holder_id, reservation_id, status, COALESCE(note, ''), decided_by, decided_on, created_on`

func scanApproval(row interface{ Scan(dest ...any) error }, ac *domain.ApprovalCase) error {
	return row.Scan(&ac.ID, &ac.Kind, &ac.HolderID, &ac.ReservationID, &ac.Status,
		&ac.Note, &ac.DecidedBy, &ac.DecidedOn, &ac.CreatedOn)
}

func (r *approvalRepository) Create(ctx context.Context, ac *domain.ApprovalCase) error {
	query := `INSERT INTO approval_cases (kind, holder_id, reservation_id, status, note, created_on)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_on`
	return q(ctx, r.db).QueryRowContext(ctx, query, ac.Kind, ac.HolderID, ac.ReservationID, ac.Status, ac.Note).
		Scan(&ac.ID, &ac.CreatedOn)
}

func (r *approvalRepository) GetByID(ctx context.Context, id int64) (*domain.ApprovalCase, error) {
	ac := &domain.ApprovalCase{}
	query := `SELECT ` + approvalColumns + ` FROM approval_cases WHERE id = $1`
	err := scanApproval(q(ctx, r.db).QueryRowContext(ctx, query, id), ac)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return ac, nil
}

// Decide is the administrator gate: the WHERE status = 'PENDING' clause makes
// the decision settable exactly once even under concurrent administrators.
func (r *approvalRepository) Decide(ctx context.Context, id int64, status domain.ApprovalStatus, adminID int64) (bool, error) {
	query := `UPDATE approval_cases SET status = $2, decided_by = $3, decided_on = NOW()
	          WHERE id = $1 AND status = 'PENDING'`
	res, err := q(ctx, r.db).ExecContext(ctx, query, id, status, adminID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *approvalRepository) ListPending(ctx context.Context, kind string, page, pageSize int32) ([]domain.ApprovalCase, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + approvalColumns + ` FROM approval_cases WHERE status = 'PENDING'`
	args := []any{}
	argIdx := 1
	if kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, kind)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := q(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cases []domain.ApprovalCase
	for rows.Next() {
		var ac domain.ApprovalCase
		if err := scanApproval(rows, &ac); err != nil {
			return nil, 0, err
		}
		cases = append(cases, ac)
	}
	return cases, count, rows.Err()
}

func (r *approvalRepository) ListByHolder(ctx context.Context, holderID int64) ([]domain.ApprovalCase, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_cases WHERE holder_id = $1 ORDER BY created_on DESC`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, holderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.ApprovalCase
	for rows.Next() {
		var ac domain.ApprovalCase
		if err := scanApproval(rows, &ac); err != nil {
			return nil, err
		}
		cases = append(cases, ac)
	}
	return cases, rows.Err()
}
