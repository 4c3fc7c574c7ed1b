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

type resourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) repository.ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, res *domain.CapacityResource) error {
	query := `INSERT INTO capacity_resources (kind, name, total_capacity, reserved_count, deadline, unit_price_cents, archived, created_on, updated_on)
	          VALUES ($1, $2, $3, 0, $4, $5, FALSE, NOW(), NOW()) RETURNING id, created_on, updated_on`
	return q(ctx, r.db).QueryRowContext(ctx, query, res.Kind, res.Name, res.TotalCapacity, res.Deadline, res.UnitPriceCents).
		Scan(&res.ID, &res.CreatedOn, &res.UpdatedOn)
}

func (r *resourceRepository) GetByID(ctx context.Context, id int64) (*domain.CapacityResource, error) {
	res := &domain.CapacityResource{}
	query := `SELECT id, kind, name, total_capacity, reserved_count, deadline, unit_price_cents, archived, created_on, updated_on
	          FROM capacity_resources WHERE id = $1`
	err := q(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.Kind, &res.Name, &res.TotalCapacity, &res.ReservedCount,
		&res.Deadline, &res.UnitPriceCents, &res.Archived, &res.CreatedOn, &res.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resourceRepository) List(ctx context.Context, kind string, page, pageSize int32) ([]domain.CapacityResource, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, kind, name, total_capacity, reserved_count, deadline, unit_price_cents, archived, created_on, updated_on
	          FROM capacity_resources WHERE archived = FALSE`
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

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var resources []domain.CapacityResource
	for rows.Next() {
		var res domain.CapacityResource
		if err := rows.Scan(&res.ID, &res.Kind, &res.Name, &res.TotalCapacity, &res.ReservedCount,
			&res.Deadline, &res.UnitPriceCents, &res.Archived, &res.CreatedOn, &res.UpdatedOn); err != nil {
			return nil, 0, err
		}
		resources = append(resources, res)
	}
	return resources, count, rows.Err()
}

func (r *resourceRepository) Archive(ctx context.Context, id int64) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`UPDATE capacity_resources SET archived = TRUE, updated_on = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// TryReserve is the one write that enforces reserved_count <= total_capacity.
// The guard lives in the WHERE clause so concurrent callers serialize on the
// row update instead of racing a read-then-write.
func (r *resourceRepository) TryReserve(ctx context.Context, resourceID int64, quantity int32) error {
	query := `UPDATE capacity_resources
	          SET reserved_count = reserved_count + $2, updated_on = NOW()
	          WHERE id = $1
	            AND archived = FALSE
	            AND (deadline IS NULL OR deadline > NOW())
	            AND (total_capacity IS NULL OR reserved_count + $2 <= total_capacity)`
	res, err := q(ctx, r.db).ExecContext(ctx, query, resourceID, quantity)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}
	return r.classifyRefusal(ctx, resourceID, quantity)
}

// classifyRefusal re-reads the row to tell the caller why the conditional
// update matched nothing.
func (r *resourceRepository) classifyRefusal(ctx context.Context, resourceID int64, quantity int32) error {
	var (
		total    sql.NullInt32
		reserved int32
		deadline sql.NullTime
		archived bool
	)
	query := `SELECT total_capacity, reserved_count, deadline, archived FROM capacity_resources WHERE id = $1`
	err := q(ctx, r.db).QueryRowContext(ctx, query, resourceID).Scan(&total, &reserved, &deadline, &archived)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrResourceNotFound
	}
	if err != nil {
		return err
	}
	if archived {
		return domain.ErrResourceNotFound
	}
	if deadline.Valid && !time.Now().Before(deadline.Time) {
		return domain.ErrDeadlinePassed
	}
	if total.Valid && reserved+quantity > total.Int32 {
		return domain.ErrCapacityExhausted
	}
	// The row changed between the update and the re-read; let the caller retry.
	return domain.ErrCapacityExhausted
}

func (r *resourceRepository) Release(ctx context.Context, resourceID int64, quantity int32) error {
	query := `UPDATE capacity_resources
	          SET reserved_count = GREATEST(reserved_count - $2, 0), updated_on = NOW()
	          WHERE id = $1`
	res, err := q(ctx, r.db).ExecContext(ctx, query, resourceID, quantity)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}
