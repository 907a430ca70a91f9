package commands

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"propapi/internal/config"
	"propapi/internal/database"
	"propapi/internal/logging"
	"propapi/internal/mail"
	"propapi/internal/money"
	"propapi/internal/repository/postgres"
	"propapi/internal/service"
)

// env is what every subcommand needs, built from the same environment as the server.
type env struct {
	cfg    *config.AppConfig
	logger zerolog.Logger
}

func loadEnv() env {
	cfg := config.Load()
	return env{cfg: cfg, logger: logging.New(os.Stderr, cfg.Location(), cfg.LogLevel)}
}

func (e env) openDB() (*sql.DB, error) {
	db, err := database.NewPostgres(e.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (e env) invoiceService(db *sql.DB) (service.InvoiceService, error) {
	mailer, err := mail.New(e.cfg.SMTP, e.logger)
	if err != nil {
		return nil, err
	}
	return service.NewInvoiceService(service.InvoiceDeps{
		Invoices:   postgres.NewInvoicePostgres(db),
		Leases:     postgres.NewLeasePostgres(db),
		Payments:   postgres.NewPaymentPostgres(db),
		Properties: postgres.NewPropertyPostgres(db),
		Tenants:    postgres.NewTenantPostgres(db),
		Users:      postgres.NewUserPostgres(db),
		Mailer:     mailer,
		Notifier:   service.NewNotificationService(postgres.NewNotificationPostgres(db)),
		Locale:     money.ParseLocale(e.cfg.Locale),
	}, e.logger), nil
}
