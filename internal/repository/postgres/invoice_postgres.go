package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"propapi/internal/model"
	"propapi/internal/repository"
)

// InvoicePostgres is a PostgreSQL implementation of repository.InvoiceRepository.
type InvoicePostgres struct {
	db *sql.DB
}

// NewInvoicePostgres creates a new InvoicePostgres repository.
func NewInvoicePostgres(db *sql.DB) *InvoicePostgres {
	return &InvoicePostgres{db: db}
}

var _ repository.InvoiceRepository = (*InvoicePostgres)(nil)

const invoiceColumns = `id, number, lease_id, tenant_id, property_id, amount, amount_paid, currency,
	period_start, period_end, due_date, status, description, sent_at, paid_at, created_at`

func scanInvoice(s rowScanner) (*model.Invoice, error) {
	var (
		inv    model.Invoice
		sentAt sql.NullTime
		paidAt sql.NullTime
	)
	if err := s.Scan(
		&inv.ID,
		&inv.Number,
		&inv.LeaseID,
		&inv.TenantID,
		&inv.PropertyID,
		&inv.Amount,
		&inv.AmountPaid,
		&inv.Currency,
		&inv.PeriodStart,
		&inv.PeriodEnd,
		&inv.DueDate,
		&inv.Status,
		&inv.Description,
		&sentAt,
		&paidAt,
		&inv.CreatedAt,
	); err != nil {
		return nil, err
	}
	inv.SentAt = timePtr(sentAt)
	inv.PaidAt = timePtr(paidAt)
	return &inv, nil
}

func (r *InvoicePostgres) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	const q = `
		INSERT INTO invoices (id, number, lease_id, tenant_id, property_id, amount, amount_paid, currency,
			period_start, period_end, due_date, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + invoiceColumns
	stored, err := scanInvoice(r.db.QueryRowContext(ctx, q,
		inv.ID,
		inv.Number,
		inv.LeaseID,
		inv.TenantID,
		inv.PropertyID,
		inv.Amount,
		inv.AmountPaid,
		inv.Currency,
		inv.PeriodStart,
		inv.PeriodEnd,
		inv.DueDate,
		inv.Status,
		inv.Description,
		inv.CreatedAt,
	))
	if err != nil {
		return nil, mapUnique(err)
	}
	return stored, nil
}

func (r *InvoicePostgres) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRowContext(ctx, q, id))
}

func (r *InvoicePostgres) List(ctx context.Context, f repository.InvoiceFilter, pq repository.PageQuery) (*repository.PageResult[model.Invoice], error) {
	var w where
	w.addIf(f.LeaseID != "", "lease_id = $%d", f.LeaseID)
	w.addIf(f.TenantID != "", "tenant_id = $%d", f.TenantID)
	w.addIf(f.PropertyID != "", "property_id = $%d", f.PropertyID)
	w.addIf(f.Status != "", "status = $%d", f.Status)
	w.addIf(f.LandlordID != "", "property_id IN (SELECT id FROM properties WHERE landlord_id = $%d)", f.LandlordID)
	w.addIf(f.TenantUserID != "", "tenant_id IN (SELECT id FROM tenants WHERE user_id = $%d)", f.TenantUserID)

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM invoices`+w.String(), w.args...)
	if err != nil {
		return nil, err
	}

	limit, args := w.page(pq.Limit, pq.Offset)
	q := `SELECT ` + invoiceColumns + ` FROM invoices` + w.String() + ` ORDER BY due_date DESC, id DESC` + limit
	items, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Invoice]{Items: items, Total: total}, nil
}

func (r *InvoicePostgres) UpdateStatus(ctx context.Context, id string, from, to model.InvoiceStatus) error {
	const q = `UPDATE invoices SET status = $3 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, from, to)
	if err != nil {
		return err
	}
	return expectOneRow(res, repository.ErrStaleState)
}

func (r *InvoicePostgres) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	const q = `
		UPDATE invoices
		SET sent_at = $2, status = CASE WHEN status = 'draft' THEN 'sent' ELSE status END
		WHERE id = $1 AND status <> 'void'
	`
	res, err := r.db.ExecContext(ctx, q, id, sentAt)
	if err != nil {
		return err
	}
	return expectOneRow(res, repository.ErrStaleState)
}

func (r *InvoicePostgres) ListOverdueCandidates(ctx context.Context, now time.Time) ([]model.Invoice, error) {
	const q = `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status IN ('sent', 'partially_paid') AND due_date < $1::date
		ORDER BY due_date, id
	`
	// Pass the calendar day of now in its own location so the session timezone does not shift it.
	return r.query(ctx, q, now.Format(time.DateOnly))
}

func (r *InvoicePostgres) ExistsForPeriod(ctx context.Context, leaseID string, periodStart time.Time) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM invoices WHERE lease_id = $1 AND period_start = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, leaseID, periodStart).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *InvoicePostgres) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", n), nil
}

func (r *InvoicePostgres) query(ctx context.Context, q string, args ...any) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *inv)
	}
	return items, rows.Err()
}
