package postgres

import (
	"context"
	"database/sql"
	"time"

	"propapi/internal/model"
	"propapi/internal/repository"
)

// LeasePostgres is a PostgreSQL implementation of repository.LeaseRepository.
type LeasePostgres struct {
	db *sql.DB
}

// NewLeasePostgres creates a new LeasePostgres repository.
func NewLeasePostgres(db *sql.DB) *LeasePostgres {
	return &LeasePostgres{db: db}
}

var _ repository.LeaseRepository = (*LeasePostgres)(nil)

const leaseColumns = `id, property_id, tenant_id, start_date, end_date, rent_amount, deposit, currency,
	billing_day, status, document_path, document_name, created_at, updated_at`

func scanLease(s rowScanner) (*model.Lease, error) {
	var l model.Lease
	if err := s.Scan(
		&l.ID,
		&l.PropertyID,
		&l.TenantID,
		&l.StartDate,
		&l.EndDate,
		&l.RentAmount,
		&l.Deposit,
		&l.Currency,
		&l.BillingDay,
		&l.Status,
		&l.DocumentPath,
		&l.DocumentName,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeasePostgres) Create(ctx context.Context, l *model.Lease) (*model.Lease, error) {
	const q = `
		INSERT INTO leases (id, property_id, tenant_id, start_date, end_date, rent_amount, deposit,
			currency, billing_day, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + leaseColumns
	return scanLease(r.db.QueryRowContext(ctx, q,
		l.ID,
		l.PropertyID,
		l.TenantID,
		l.StartDate,
		l.EndDate,
		l.RentAmount,
		l.Deposit,
		l.Currency,
		l.BillingDay,
		l.Status,
		l.CreatedAt,
		l.UpdatedAt,
	))
}

func (r *LeasePostgres) FindByID(ctx context.Context, id string) (*model.Lease, error) {
	const q = `SELECT ` + leaseColumns + ` FROM leases WHERE id = $1`
	return scanLease(r.db.QueryRowContext(ctx, q, id))
}

func (r *LeasePostgres) List(ctx context.Context, f repository.LeaseFilter, pq repository.PageQuery) (*repository.PageResult[model.Lease], error) {
	var w where
	w.addIf(f.PropertyID != "", "property_id = $%d", f.PropertyID)
	w.addIf(f.TenantID != "", "tenant_id = $%d", f.TenantID)
	w.addIf(f.Status != "", "status = $%d", f.Status)
	w.addIf(f.LandlordID != "", "property_id IN (SELECT id FROM properties WHERE landlord_id = $%d)", f.LandlordID)
	w.addIf(f.TenantUserID != "", "tenant_id IN (SELECT id FROM tenants WHERE user_id = $%d)", f.TenantUserID)

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM leases`+w.String(), w.args...)
	if err != nil {
		return nil, err
	}

	limit, args := w.page(pq.Limit, pq.Offset)
	q := `SELECT ` + leaseColumns + ` FROM leases` + w.String() + ` ORDER BY start_date DESC, id DESC` + limit
	items, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Lease]{Items: items, Total: total}, nil
}

func (r *LeasePostgres) UpdateStatus(ctx context.Context, id string, from, to model.LeaseStatus, at time.Time) error {
	const q = `UPDATE leases SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, from, to, at)
	if err != nil {
		return err
	}
	return expectOneRow(res, repository.ErrStaleState)
}

func (r *LeasePostgres) SetDocument(ctx context.Context, id, path, name string, at time.Time) error {
	const q = `UPDATE leases SET document_path = $2, document_name = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, path, name, at)
	if err != nil {
		return err
	}
	return expectOneRow(res, sql.ErrNoRows)
}

func (r *LeasePostgres) ListActive(ctx context.Context) ([]model.Lease, error) {
	const q = `SELECT ` + leaseColumns + ` FROM leases WHERE status = 'active' ORDER BY id`
	return r.query(ctx, q)
}

func (r *LeasePostgres) query(ctx context.Context, q string, args ...any) ([]model.Lease, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lease, 0)
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}
