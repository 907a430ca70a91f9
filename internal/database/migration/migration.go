package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email      TEXT        NOT NULL UNIQUE,
  name       TEXT        NOT NULL,
  role       TEXT        NOT NULL CHECK (role IN ('landlord', 'tenant')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_properties",
		SQL: `CREATE TABLE IF NOT EXISTS properties (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  landlord_id UUID        NOT NULL REFERENCES users (id),
  name        TEXT        NOT NULL,
  address     TEXT        NOT NULL,
  city        TEXT        NOT NULL DEFAULT '',
  country     TEXT        NOT NULL DEFAULT '',
  currency    CHAR(3)     NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_tenants",
		SQL: `CREATE TABLE IF NOT EXISTS tenants (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id     UUID        NOT NULL REFERENCES users (id),
  property_id UUID        NOT NULL REFERENCES properties (id),
  phone       TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (user_id, property_id)
);`,
	},
	{
		Name: "create_table_property_requests",
		SQL: `CREATE TABLE IF NOT EXISTS property_requests (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  property_id UUID        NOT NULL REFERENCES properties (id),
  user_id     UUID        NOT NULL REFERENCES users (id),
  message     TEXT        NOT NULL DEFAULT '',
  status      TEXT        NOT NULL CHECK (status IN ('pending', 'approved', 'rejected')),
  reason      TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  decided_at  TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_leases",
		SQL: `CREATE TABLE IF NOT EXISTS leases (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  property_id   UUID        NOT NULL REFERENCES properties (id),
  tenant_id     UUID        NOT NULL REFERENCES tenants (id),
  start_date    DATE        NOT NULL,
  end_date      DATE        NOT NULL CHECK (end_date > start_date),
  rent_amount   BIGINT      NOT NULL CHECK (rent_amount > 0),
  deposit       BIGINT      NOT NULL DEFAULT 0 CHECK (deposit >= 0),
  currency      CHAR(3)     NOT NULL,
  billing_day   SMALLINT    NOT NULL CHECK (billing_day BETWEEN 1 AND 28),
  status        TEXT        NOT NULL CHECK (status IN ('draft', 'pending', 'signed', 'active', 'terminated', 'expired')),
  document_path TEXT        NOT NULL DEFAULT '',
  document_name TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_sequence_invoice_number",
		SQL:  `CREATE SEQUENCE IF NOT EXISTS invoice_number_seq START 1000;`,
	},
	{
		Name: "create_table_invoices",
		SQL: `CREATE TABLE IF NOT EXISTS invoices (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  number       TEXT        NOT NULL UNIQUE,
  lease_id     UUID        NOT NULL REFERENCES leases (id),
  tenant_id    UUID        NOT NULL REFERENCES tenants (id),
  property_id  UUID        NOT NULL REFERENCES properties (id),
  amount       BIGINT      NOT NULL CHECK (amount > 0),
  amount_paid  BIGINT      NOT NULL DEFAULT 0 CHECK (amount_paid >= 0),
  currency     CHAR(3)     NOT NULL,
  period_start DATE        NOT NULL,
  period_end   DATE        NOT NULL,
  due_date     DATE        NOT NULL,
  status       TEXT        NOT NULL CHECK (status IN ('draft', 'sent', 'partially_paid', 'paid', 'overdue', 'void')),
  description  TEXT        NOT NULL DEFAULT '',
  sent_at      TIMESTAMPTZ,
  paid_at      TIMESTAMPTZ,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (lease_id, period_start)
);`,
	},
	{
		Name: "create_table_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  invoice_id UUID        NOT NULL REFERENCES invoices (id),
  amount     BIGINT      NOT NULL CHECK (amount > 0),
  currency   CHAR(3)     NOT NULL,
  method     TEXT        NOT NULL CHECK (method IN ('cash', 'bank_transfer', 'card', 'other')),
  reference  TEXT        NOT NULL DEFAULT '',
  paid_at    TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_maintenance_requests",
		SQL: `CREATE TABLE IF NOT EXISTS maintenance_requests (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  property_id UUID        NOT NULL REFERENCES properties (id),
  tenant_id   UUID        NOT NULL REFERENCES tenants (id),
  title       TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  priority    TEXT        NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
  status      TEXT        NOT NULL CHECK (status IN ('open', 'in_progress', 'resolved', 'cancelled')),
  photo_path  TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES users (id),
  type       TEXT        NOT NULL,
  title      TEXT        NOT NULL,
  message    TEXT        NOT NULL DEFAULT '',
  link       TEXT        NOT NULL DEFAULT '',
  read       BOOLEAN     NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_leases_property_tenant",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leases_property_tenant ON leases (property_id, tenant_id);`,
	},
	{
		Name: "create_index_invoices_status_due",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_status_due ON invoices (status, due_date);`,
	},
	{
		Name: "create_index_payments_invoice",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_payments_invoice ON payments (invoice_id);`,
	},
	{
		Name: "create_index_maintenance_property_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_maintenance_property_status ON maintenance_requests (property_id, status);`,
	},
	{
		Name: "create_index_notifications_user_read",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications (user_id, read, created_at DESC);`,
	},
	{
		Name: "create_index_property_requests_one_pending",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_property_requests_pending
  ON property_requests (property_id, user_id) WHERE status = 'pending';`,
	},
}

// EnsureMigrated applies every step not yet recorded in schema_migrations, in order.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger zerolog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("")

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		log.Error().Str("event", "db_migration_failed").Str("status", "error").
			Str("error_message", err.Error()).
			Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")
		return fmt.Errorf("create migration ledger: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.Error().Str("event", "db_migration_failed").Str("status", "error").
			Str("error_message", err.Error()).
			Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")
		return fmt.Errorf("read migration ledger: %w", err)
	}

	pending := make([]migrationStep, 0, len(steps))
	for _, step := range steps {
		if !applied[step.Name] {
			pending = append(pending, step)
		}
	}

	if len(pending) == 0 {
		log.Info().Str("event", "db_migration_skip").Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema up to date, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").
		Int("pending_steps", len(pending)).Msg("")

	for _, step := range pending {
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			log.Error().Str("event", "db_migration_failed").Str("status", "error").
				Str("migration_step", step.Name).
				Str("error_message", err.Error()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).Msg("")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().Str("event", "db_migration_step").Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).Msg("")
	}

	log.Info().Str("event", "db_migration_success").Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")

	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
