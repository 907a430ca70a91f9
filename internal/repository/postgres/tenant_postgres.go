package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"propapi/internal/model"
	"propapi/internal/repository"
)

// TenantPostgres is a PostgreSQL implementation of repository.TenantRepository.
type TenantPostgres struct {
	db *sql.DB
}

// NewTenantPostgres creates a new TenantPostgres repository.
func NewTenantPostgres(db *sql.DB) *TenantPostgres {
	return &TenantPostgres{db: db}
}

var _ repository.TenantRepository = (*TenantPostgres)(nil)

const tenantColumns = `id, user_id, property_id, phone, created_at`

func scanTenant(s rowScanner) (*model.Tenant, error) {
	var t model.Tenant
	if err := s.Scan(&t.ID, &t.UserID, &t.PropertyID, &t.Phone, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantPostgres) Create(ctx context.Context, t *model.Tenant) (*model.Tenant, error) {
	const q = `
		INSERT INTO tenants (id, user_id, property_id, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + tenantColumns
	stored, err := scanTenant(r.db.QueryRowContext(ctx, q, t.ID, t.UserID, t.PropertyID, t.Phone, t.CreatedAt))
	if err != nil {
		return nil, mapUnique(err)
	}
	return stored, nil
}

func (r *TenantPostgres) FindByID(ctx context.Context, id string) (*model.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(r.db.QueryRowContext(ctx, q, id))
}

func (r *TenantPostgres) FindByUserAndProperty(ctx context.Context, userID, propertyID string) (*model.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE user_id = $1 AND property_id = $2`
	return scanTenant(r.db.QueryRowContext(ctx, q, userID, propertyID))
}

func (r *TenantPostgres) ListByProperty(ctx context.Context, propertyID string) ([]model.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE property_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Tenant, 0)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// PropertyRequestPostgres is a PostgreSQL implementation of repository.PropertyRequestRepository.
type PropertyRequestPostgres struct {
	db *sql.DB
}

// NewPropertyRequestPostgres creates a new PropertyRequestPostgres repository.
func NewPropertyRequestPostgres(db *sql.DB) *PropertyRequestPostgres {
	return &PropertyRequestPostgres{db: db}
}

var _ repository.PropertyRequestRepository = (*PropertyRequestPostgres)(nil)

const propertyRequestColumns = `id, property_id, user_id, message, status, reason, created_at, decided_at`

func scanPropertyRequest(s rowScanner) (*model.PropertyRequest, error) {
	var (
		pr      model.PropertyRequest
		decided sql.NullTime
	)
	if err := s.Scan(&pr.ID, &pr.PropertyID, &pr.UserID, &pr.Message, &pr.Status, &pr.Reason, &pr.CreatedAt, &decided); err != nil {
		return nil, err
	}
	pr.DecidedAt = timePtr(decided)
	return &pr, nil
}

func (r *PropertyRequestPostgres) Create(ctx context.Context, pr *model.PropertyRequest) (*model.PropertyRequest, error) {
	const q = `
		INSERT INTO property_requests (id, property_id, user_id, message, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + propertyRequestColumns
	stored, err := scanPropertyRequest(r.db.QueryRowContext(ctx, q,
		pr.ID, pr.PropertyID, pr.UserID, pr.Message, pr.Status, pr.Reason, pr.CreatedAt))
	if err != nil {
		return nil, mapUnique(err)
	}
	return stored, nil
}

func (r *PropertyRequestPostgres) FindByID(ctx context.Context, id string) (*model.PropertyRequest, error) {
	const q = `SELECT ` + propertyRequestColumns + ` FROM property_requests WHERE id = $1`
	return scanPropertyRequest(r.db.QueryRowContext(ctx, q, id))
}

func (r *PropertyRequestPostgres) ListByProperty(ctx context.Context, propertyID string, pq repository.PageQuery) (*repository.PageResult[model.PropertyRequest], error) {
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM property_requests WHERE property_id = $1`, propertyID)
	if err != nil {
		return nil, err
	}
	const q = `
		SELECT ` + propertyRequestColumns + `
		FROM property_requests
		WHERE property_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, q, propertyID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PropertyRequest, 0)
	for rows.Next() {
		pr, err := scanPropertyRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *pr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.PropertyRequest]{Items: items, Total: total}, nil
}

func (r *PropertyRequestPostgres) Decide(ctx context.Context, id string, status model.PropertyRequestStatus, reason string, decidedAt time.Time) error {
	const q = `
		UPDATE property_requests
		SET status = $2, reason = $3, decided_at = $4
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, q, id, status, reason, decidedAt)
	if err != nil {
		return err
	}
	return expectOneRow(res, repository.ErrStaleState)
}

func (r *PropertyRequestPostgres) Approve(ctx context.Context, id string, t *model.Tenant, decidedAt time.Time) (*model.Tenant, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qDecide = `
		UPDATE property_requests
		SET status = 'approved', reason = '', decided_at = $2
		WHERE id = $1 AND status = 'pending'
	`
	res, err := tx.ExecContext(ctx, qDecide, id, decidedAt)
	if err != nil {
		return nil, err
	}
	if err := expectOneRow(res, repository.ErrStaleState); err != nil {
		return nil, err
	}

	const qTenant = `
		INSERT INTO tenants (id, user_id, property_id, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + tenantColumns
	stored, err := scanTenant(tx.QueryRowContext(ctx, qTenant, t.ID, t.UserID, t.PropertyID, t.Phone, t.CreatedAt))
	if err != nil {
		return nil, mapUnique(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}
