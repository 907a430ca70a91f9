package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"propapi/internal/http/middleware"
	"propapi/internal/service"
	"propapi/internal/upload"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Properties       service.PropertyService
	PropertyRequests service.PropertyRequestService
	Leases           service.LeaseService
	Invoices         service.InvoiceService
	Payments         service.PaymentService
	Maintenance      service.MaintenanceService
	Notifications    service.NotificationService
	Exchange         service.ExchangeService
	Uploads          *upload.Tracker
}

// RegisterRoutes attaches every HTTP route to app. Probes and /metrics are
// public; everything under /api/v1 requires a bearer token. A nil gatherer
// leaves /metrics unregistered.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, tokens middleware.TokenParser, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if gatherer != nil {
		app.Get("/metrics", Metrics(gatherer))
	}

	api := app.Group("/api/v1", middleware.Auth(tokens))

	api.Post("/properties", CreateProperty(svc.Properties))
	api.Get("/properties", ListProperties(svc.Properties))
	api.Get("/properties/:id", GetProperty(svc.Properties))
	api.Get("/properties/:id/tenants", ListPropertyTenants(svc.Properties))
	api.Post("/properties/:id/requests", SubmitPropertyRequest(svc.PropertyRequests))
	api.Get("/properties/:id/requests", ListPropertyRequests(svc.PropertyRequests))
	api.Post("/property-requests/:id/approve", ApprovePropertyRequest(svc.PropertyRequests))
	api.Post("/property-requests/:id/reject", RejectPropertyRequest(svc.PropertyRequests))

	api.Post("/leases", CreateLease(svc.Leases))
	api.Get("/leases", ListLeases(svc.Leases))
	api.Get("/leases/:id", GetLease(svc.Leases))
	api.Post("/leases/:id/status", TransitionLease(svc.Leases))
	api.Post("/leases/:id/document", UploadLeaseDocument(svc.Leases))
	api.Get("/leases/:id/document", DownloadLeaseDocument(svc.Leases))

	api.Post("/invoices", CreateInvoice(svc.Invoices))
	api.Get("/invoices", ListInvoices(svc.Invoices))
	api.Get("/invoices/:id", GetInvoice(svc.Invoices))
	api.Get("/invoices/:id/pdf", DownloadInvoicePDF(svc.Invoices))
	api.Post("/invoices/:id/send", SendInvoice(svc.Invoices))
	api.Post("/invoices/:id/void", VoidInvoice(svc.Invoices))
	api.Get("/invoices/:id/payments", ListPayments(svc.Payments))
	api.Post("/invoices/:id/payments", RecordPayment(svc.Payments))

	api.Post("/maintenance", CreateMaintenance(svc.Maintenance))
	api.Get("/maintenance", ListMaintenance(svc.Maintenance))
	api.Get("/maintenance/:id", GetMaintenance(svc.Maintenance))
	api.Post("/maintenance/:id/status", UpdateMaintenanceStatus(svc.Maintenance))
	api.Post("/maintenance/:id/photo", AttachMaintenancePhoto(svc.Maintenance))

	// unread-count and read-all are registered before :id so they are not captured by it.
	api.Get("/notifications", ListNotifications(svc.Notifications))
	api.Get("/notifications/unread-count", UnreadNotificationCount(svc.Notifications))
	api.Post("/notifications/read-all", MarkAllNotificationsRead(svc.Notifications))
	api.Post("/notifications/:id/read", MarkNotificationRead(svc.Notifications))

	api.Get("/exchange-rates", GetExchangeRate(svc.Exchange))
	api.Get("/uploads/:id", GetUploadProgress(svc.Uploads))
	api.Get("/format/currency", FormatCurrency())
}
