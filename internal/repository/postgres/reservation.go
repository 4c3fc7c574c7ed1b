package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

const reservationColumns = `id, resource_id, holder_id, quantity, state, method, payment_ref, amount_cents, created_on, resolved_on`

func scanReservation(row interface{ Scan(dest ...any) error }, rsv *domain.Reservation) error {
	return row.Scan(&rsv.ID, &rsv.ResourceID, &rsv.HolderID, &rsv.Quantity, &rsv.State,
		&rsv.Method, &rsv.PaymentRef, &rsv.AmountCents, &rsv.CreatedOn, &rsv.ResolvedOn)
}

func (r *reservationRepository) Create(ctx context.Context, rsv *domain.Reservation) error {
	query := `INSERT INTO reservations (resource_id, holder_id, quantity, state, method, amount_cents, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id, created_on`
	err := q(ctx, r.db).QueryRowContext(ctx, query,
		rsv.ResourceID, rsv.HolderID, rsv.Quantity, rsv.State, rsv.Method, rsv.AmountCents).
		Scan(&rsv.ID, &rsv.CreatedOn)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateReservation
	}
	return err
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	rsv := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	err := scanReservation(q(ctx, r.db).QueryRowContext(ctx, query, id), rsv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return rsv, nil
}

func (r *reservationRepository) GetLive(ctx context.Context, resourceID, holderID int64) (*domain.Reservation, error) {
	rsv := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE resource_id = $1 AND holder_id = $2 AND state NOT IN ('RELEASED', 'REFUNDED')
	          ORDER BY created_on DESC LIMIT 1`
	err := scanReservation(q(ctx, r.db).QueryRowContext(ctx, query, resourceID, holderID), rsv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rsv, nil
}

func (r *reservationRepository) GetByPaymentRef(ctx context.Context, ref string) (*domain.Reservation, error) {
	rsv := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE payment_ref = $1`
	err := scanReservation(q(ctx, r.db).QueryRowContext(ctx, query, ref), rsv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return rsv, nil
}

func (r *reservationRepository) TransitionState(ctx context.Context, id int64, from, to domain.ReservationState) (bool, error) {
	query := `UPDATE reservations
	          SET state = $3,
	              resolved_on = CASE WHEN $3 IN ('CONFIRMED', 'RELEASED', 'REFUNDED') THEN NOW() ELSE resolved_on END
	          WHERE id = $1 AND state = $2`
	res, err := q(ctx, r.db).ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *reservationRepository) SetSettlement(ctx context.Context, id int64, paymentRef string, amountCents int64) error {
	query := `UPDATE reservations SET payment_ref = $2, amount_cents = $3 WHERE id = $1`
	_, err := q(ctx, r.db).ExecContext(ctx, query, id, paymentRef, amountCents)
	return err
}

func (r *reservationRepository) RecordTransition(ctx context.Context, tr *domain.Transition) error {
	query := `INSERT INTO reservation_transitions (reservation_id, from_state, to_state, actor_id, occurred_on)
	          VALUES ($1, $2, $3, $4, NOW()) RETURNING id, occurred_on`
	return q(ctx, r.db).QueryRowContext(ctx, query, tr.ReservationID, tr.FromState, tr.ToState, tr.ActorID).
		Scan(&tr.ID, &tr.OccurredOn)
}

func (r *reservationRepository) ListTransitions(ctx context.Context, reservationID int64) ([]domain.Transition, error) {
	query := `SELECT id, reservation_id, from_state, to_state, actor_id, occurred_on
	          FROM reservation_transitions WHERE reservation_id = $1 ORDER BY occurred_on ASC, id ASC`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []domain.Transition
	for rows.Next() {
		var tr domain.Transition
		if err := rows.Scan(&tr.ID, &tr.ReservationID, &tr.FromState, &tr.ToState, &tr.ActorID, &tr.OccurredOn); err != nil {
			return nil, err
		}
		transitions = append(transitions, tr)
	}
	return transitions, rows.Err()
}

func (r *reservationRepository) ListByHolder(ctx context.Context, holderID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.list(ctx, "holder_id", holderID, state, page, pageSize)
}

func (r *reservationRepository) ListByResource(ctx context.Context, resourceID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.list(ctx, "resource_id", resourceID, state, page, pageSize)
}

func (r *reservationRepository) list(ctx context.Context, column string, id int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + column + ` = $1`
	args := []any{id}
	argIdx := 2
	if state != "" {
		query += fmt.Sprintf(" AND state = $%d", argIdx)
		args = append(args, state)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := q(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var rsv domain.Reservation
		if err := scanReservation(rows, &rsv); err != nil {
			return nil, 0, err
		}
		reservations = append(reservations, rsv)
	}
	return reservations, count, rows.Err()
}

func (r *reservationRepository) ListAwaitingSettlementBefore(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE state = 'AWAITING_SETTLEMENT' AND created_on < $1
	          ORDER BY created_on ASC LIMIT $2`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var rsv domain.Reservation
		if err := scanReservation(rows, &rsv); err != nil {
			return nil, err
		}
		reservations = append(reservations, rsv)
	}
	return reservations, rows.Err()
}
