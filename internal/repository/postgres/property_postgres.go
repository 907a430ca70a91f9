package postgres

import (
	"context"
	"database/sql"

	"propapi/internal/model"
	"propapi/internal/repository"
)

// PropertyPostgres is a PostgreSQL implementation of repository.PropertyRepository.
type PropertyPostgres struct {
	db *sql.DB
}

// NewPropertyPostgres creates a new PropertyPostgres repository.
func NewPropertyPostgres(db *sql.DB) *PropertyPostgres {
	return &PropertyPostgres{db: db}
}

var _ repository.PropertyRepository = (*PropertyPostgres)(nil)

const propertyColumns = `id, landlord_id, name, address, city, country, currency, created_at`

func scanProperty(s rowScanner) (*model.Property, error) {
	var p model.Property
	if err := s.Scan(&p.ID, &p.LandlordID, &p.Name, &p.Address, &p.City, &p.Country, &p.Currency, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyPostgres) Create(ctx context.Context, p *model.Property) (*model.Property, error) {
	const q = `
		INSERT INTO properties (id, landlord_id, name, address, city, country, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + propertyColumns
	return scanProperty(r.db.QueryRowContext(ctx, q,
		p.ID, p.LandlordID, p.Name, p.Address, p.City, p.Country, p.Currency, p.CreatedAt))
}

func (r *PropertyPostgres) FindByID(ctx context.Context, id string) (*model.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(r.db.QueryRowContext(ctx, q, id))
}

func (r *PropertyPostgres) ListByLandlord(ctx context.Context, landlordID string, pq repository.PageQuery) (*repository.PageResult[model.Property], error) {
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM properties WHERE landlord_id = $1`, landlordID)
	if err != nil {
		return nil, err
	}
	const q = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE landlord_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, total, q, landlordID, pq.Limit, pq.Offset)
}

func (r *PropertyPostgres) ListByTenantUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Property], error) {
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM tenants WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	const q = `
		SELECT p.id, p.landlord_id, p.name, p.address, p.city, p.country, p.currency, p.created_at
		FROM properties p
		JOIN tenants t ON t.property_id = p.id
		WHERE t.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, total, q, userID, pq.Limit, pq.Offset)
}

func (r *PropertyPostgres) list(ctx context.Context, total int, q string, args ...any) (*repository.PageResult[model.Property], error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Property]{Items: items, Total: total}, nil
}
