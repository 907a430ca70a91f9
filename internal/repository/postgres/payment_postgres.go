package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"propapi/internal/model"
	"propapi/internal/repository"
)

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentPostgres struct {
	db *sql.DB
}

// NewPaymentPostgres creates a new PaymentPostgres repository.
func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

const paymentColumns = `id, invoice_id, amount, currency, method, reference, paid_at, created_at`

func scanPayment(s rowScanner) (*model.Payment, error) {
	var p model.Payment
	if err := s.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Currency, &p.Method, &p.Reference, &p.PaidAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Record runs apply against the invoice row locked FOR UPDATE, then inserts the
// returned payment and persists the invoice's paid amount, status and paid_at.
func (r *PaymentPostgres) Record(ctx context.Context, invoiceID string, apply repository.PaymentApplier) (*model.Payment, *model.Invoice, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inv, err := scanInvoice(tx.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, invoiceID))
	if err != nil {
		return nil, nil, err
	}

	p, err := apply(inv)
	if err != nil {
		return nil, nil, err
	}

	const qInsert = `
		INSERT INTO payments (id, invoice_id, amount, currency, method, reference, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + paymentColumns
	stored, err := scanPayment(tx.QueryRowContext(ctx, qInsert,
		p.ID, p.InvoiceID, p.Amount, p.Currency, p.Method, p.Reference, p.PaidAt, p.CreatedAt))
	if err != nil {
		return nil, nil, err
	}

	const qUpdate = `UPDATE invoices SET amount_paid = $2, status = $3, paid_at = $4 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, qUpdate, inv.ID, inv.AmountPaid, inv.Status, nullTime(inv.PaidAt)); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return stored, inv, nil
}

func (r *PaymentPostgres) ListByInvoice(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY paid_at, id`
	rows, err := r.db.QueryContext(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
