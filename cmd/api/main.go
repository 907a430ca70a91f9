package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"propapi/docs"
	"propapi/internal/auth"
	"propapi/internal/cache"
	"propapi/internal/config"
	"propapi/internal/database"
	"propapi/internal/database/migration"
	"propapi/internal/exchange"
	handlers "propapi/internal/http/handler"
	"propapi/internal/http/middleware"
	"propapi/internal/logging"
	"propapi/internal/mail"
	"propapi/internal/money"
	"propapi/internal/otel"
	"propapi/internal/pdf"
	"propapi/internal/repository/postgres"
	"propapi/internal/scheduler"
	"propapi/internal/service"
	"propapi/internal/storage"
	"propapi/internal/upload"
)

// @title						Property Management API
// @version					1.0
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logger := logging.New(os.Stdout, loc, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	// Exchange rates fall back to upstream-only lookups without Redis.
	var rateCache cache.Cache
	if c, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logger.Warn().Str("component", "cache").Str("event", "cache_unavailable").
			Str("error_message", err.Error()).Msg("")
	} else {
		rateCache = c
	}

	mailer, err := mail.New(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize mailer")
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token issuer")
	}

	locale := money.ParseLocale(cfg.Locale)
	tracker := upload.NewTracker(10 * time.Minute)

	// Initialize repositories and services
	properties := postgres.NewPropertyPostgres(db)
	tenants := postgres.NewTenantPostgres(db)
	users := postgres.NewUserPostgres(db)
	leases := postgres.NewLeasePostgres(db)
	invoices := postgres.NewInvoicePostgres(db)
	payments := postgres.NewPaymentPostgres(db)

	notifications := service.NewNotificationService(postgres.NewNotificationPostgres(db))
	invoiceSvc := service.NewInvoiceService(service.InvoiceDeps{
		Invoices:   invoices,
		Leases:     leases,
		Payments:   payments,
		Properties: properties,
		Tenants:    tenants,
		Users:      users,
		Renderer:   pdf.NewInvoiceRenderer("propapi"),
		Mailer:     mailer,
		Notifier:   notifications,
		Locale:     locale,
	}, logger)

	svc := handlers.Services{
		Properties:       service.NewPropertyService(properties, tenants),
		PropertyRequests: service.NewPropertyRequestService(postgres.NewPropertyRequestPostgres(db), properties, tenants, notifications, logger),
		Leases:           service.NewLeaseService(leases, properties, tenants, objStore, tracker, notifications, logger),
		Invoices:         invoiceSvc,
		Payments:         service.NewPaymentService(invoices, payments, properties, tenants, notifications, locale, logger),
		Maintenance:      service.NewMaintenanceService(postgres.NewMaintenancePostgres(db), properties, tenants, objStore, tracker, notifications, logger),
		Notifications:    notifications,
		Exchange:         exchange.NewClient(cfg.ExchangeRate, rateCache, logger),
		Uploads:          tracker,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    32 * 1024 * 1024,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(logger))
	app.Use(prom.Handler())
	app.Use(middleware.Locale(locale, language.English, language.German, language.French, language.Indonesian))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, svc, issuer, reg)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(cfg.Scheduler, invoiceSvc, loc, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure scheduler")
		}
		jobs.Start()
	}

	addr := ":" + cfg.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
	logger.Info().Str("component", "http").Str("event", "server_start").Str("addr", addr).Msg("")
	if err := serve(ctx, app, ln, func() { shutdown(app, jobs, shutdownTracing, logger) }); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

// serve runs app on ln until ctx is cancelled. It returns only after stop has finished,
// so deferred cleanup in main cannot race the scheduler or the trace exporter.
func serve(ctx context.Context, app *fiber.App, ln net.Listener, stop func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		stop()
	}()
	if err := app.Listener(ln); err != nil {
		return err
	}
	<-done
	return nil
}

func shutdown(app *fiber.App, jobs *scheduler.Scheduler, shutdownTracing otel.ShutdownFunc, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info().Str("component", "http").Str("event", "server_shutdown").Msg("")
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if jobs != nil {
		if err := jobs.Stop(ctx); err != nil {
			logger.Error().Err(err).Msg("scheduler shutdown")
		}
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown")
	}
}
