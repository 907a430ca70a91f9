package postgres

import (
	"context"
	"database/sql"
	"time"

	"propapi/internal/model"
	"propapi/internal/repository"
)

// MaintenancePostgres is a PostgreSQL implementation of repository.MaintenanceRepository.
type MaintenancePostgres struct {
	db *sql.DB
}

// NewMaintenancePostgres creates a new MaintenancePostgres repository.
func NewMaintenancePostgres(db *sql.DB) *MaintenancePostgres {
	return &MaintenancePostgres{db: db}
}

var _ repository.MaintenanceRepository = (*MaintenancePostgres)(nil)

const maintenanceColumns = `id, property_id, tenant_id, title, description, priority, status, photo_path, created_at, updated_at`

func scanMaintenance(s rowScanner) (*model.MaintenanceRequest, error) {
	var m model.MaintenanceRequest
	if err := s.Scan(
		&m.ID,
		&m.PropertyID,
		&m.TenantID,
		&m.Title,
		&m.Description,
		&m.Priority,
		&m.Status,
		&m.PhotoPath,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaintenancePostgres) Create(ctx context.Context, m *model.MaintenanceRequest) (*model.MaintenanceRequest, error) {
	const q = `
		INSERT INTO maintenance_requests (id, property_id, tenant_id, title, description, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + maintenanceColumns
	return scanMaintenance(r.db.QueryRowContext(ctx, q,
		m.ID, m.PropertyID, m.TenantID, m.Title, m.Description, m.Priority, m.Status, m.CreatedAt, m.UpdatedAt))
}

func (r *MaintenancePostgres) FindByID(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	const q = `SELECT ` + maintenanceColumns + ` FROM maintenance_requests WHERE id = $1`
	return scanMaintenance(r.db.QueryRowContext(ctx, q, id))
}

func (r *MaintenancePostgres) List(ctx context.Context, f repository.MaintenanceFilter, pq repository.PageQuery) (*repository.PageResult[model.MaintenanceRequest], error) {
	var w where
	w.addIf(f.PropertyID != "", "property_id = $%d", f.PropertyID)
	w.addIf(f.TenantID != "", "tenant_id = $%d", f.TenantID)
	w.addIf(f.Status != "", "status = $%d", f.Status)
	w.addIf(f.LandlordID != "", "property_id IN (SELECT id FROM properties WHERE landlord_id = $%d)", f.LandlordID)
	w.addIf(f.TenantUserID != "", "tenant_id IN (SELECT id FROM tenants WHERE user_id = $%d)", f.TenantUserID)

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM maintenance_requests`+w.String(), w.args...)
	if err != nil {
		return nil, err
	}

	limit, args := w.page(pq.Limit, pq.Offset)
	q := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests` + w.String() + ` ORDER BY created_at DESC, id DESC` + limit
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MaintenanceRequest, 0)
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.MaintenanceRequest]{Items: items, Total: total}, nil
}

func (r *MaintenancePostgres) UpdateStatus(ctx context.Context, id string, from, to model.MaintenanceStatus, at time.Time) error {
	const q = `UPDATE maintenance_requests SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, from, to, at)
	if err != nil {
		return err
	}
	return expectOneRow(res, repository.ErrStaleState)
}

func (r *MaintenancePostgres) SetPhoto(ctx context.Context, id, path string, at time.Time) error {
	const q = `UPDATE maintenance_requests SET photo_path = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, path, at)
	if err != nil {
		return err
	}
	return expectOneRow(res, sql.ErrNoRows)
}
