package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"propapi/internal/auth"
	"propapi/internal/mail"
	"propapi/internal/model"
	"propapi/internal/money"
	"propapi/internal/pdf"
	"propapi/internal/repository"
)

// InvoiceInput is the payload for creating an invoice against a lease.
// Amount defaults to the lease rent; DueDate defaults to PeriodStart.
type InvoiceInput struct {
	LeaseID     string    `json:"lease_id"`
	Amount      int64     `json:"amount"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
}

// InvoiceListFilter narrows an invoice listing for the caller.
type InvoiceListFilter struct {
	LeaseID    string
	PropertyID string
	Status     model.InvoiceStatus
	Limit      int
	Offset     int
}

// GenerateResult summarizes a billing run.
type GenerateResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// InvoiceService defines the use cases for invoices.
type InvoiceService interface {
	Create(ctx context.Context, p auth.Principal, in InvoiceInput) (*model.Invoice, error)
	Get(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error)
	List(ctx context.Context, p auth.Principal, f InvoiceListFilter) (*ListResult[model.Invoice], error)
	// RenderPDF returns the invoice as a PDF document.
	RenderPDF(ctx context.Context, p auth.Principal, id string, locale language.Tag) ([]byte, *model.Invoice, error)
	// Send emails the invoice PDF to the tenant, marks it sent and notifies the tenant.
	Send(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error)
	Void(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error)

	// GenerateForPeriod creates one invoice per active lease for the month containing month.
	// Leases already billed for that period are skipped.
	GenerateForPeriod(ctx context.Context, month time.Time) (GenerateResult, error)
	// MarkOverdue flags outstanding invoices whose due date has passed and notifies their tenants.
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

type invoiceService struct {
	access
	invoices repository.InvoiceRepository
	leases   repository.LeaseRepository
	payments repository.PaymentRepository
	users    repository.UserRepository
	renderer *pdf.InvoiceRenderer
	mailer   mail.Sender
	notifier Notifier
	locale   language.Tag
	log      zerolog.Logger
	now      func() time.Time
}

// InvoiceDeps groups the collaborators of the invoice service.
type InvoiceDeps struct {
	Invoices   repository.InvoiceRepository
	Leases     repository.LeaseRepository
	Payments   repository.PaymentRepository
	Properties repository.PropertyRepository
	Tenants    repository.TenantRepository
	Users      repository.UserRepository
	Renderer   *pdf.InvoiceRenderer
	Mailer     mail.Sender
	Notifier   Notifier
	Locale     language.Tag
}

// NewInvoiceService constructs a new InvoiceService.
func NewInvoiceService(d InvoiceDeps, logger zerolog.Logger) InvoiceService {
	renderer := d.Renderer
	if renderer == nil {
		renderer = pdf.NewInvoiceRenderer("propapi")
	}
	return &invoiceService{
		access:   access{properties: d.Properties, tenants: d.Tenants},
		invoices: d.Invoices,
		leases:   d.Leases,
		payments: d.Payments,
		users:    d.Users,
		renderer: renderer,
		mailer:   d.Mailer,
		notifier: d.Notifier,
		locale:   d.Locale,
		log:      logger.With().Str("component", "invoices").Logger(),
		now:      time.Now,
	}
}

func (s *invoiceService) Create(ctx context.Context, p auth.Principal, in InvoiceInput) (*model.Invoice, error) {
	if !p.IsLandlord() {
		return nil, ErrForbidden
	}
	if in.LeaseID == "" {
		return nil, model.Invalid("LeaseID", "required")
	}
	lease, err := s.leases.FindByID(ctx, in.LeaseID)
	if err != nil {
		return nil, translate(err)
	}
	if _, err := s.ownedProperty(ctx, p, lease.PropertyID); err != nil {
		return nil, err
	}
	if lease.Status != model.LeaseActive && lease.Status != model.LeaseSigned {
		return nil, model.Invalid("LeaseID", "lease_not_billable")
	}

	amount := in.Amount
	if amount == 0 {
		amount = lease.RentAmount
	}
	due := in.DueDate
	if due.IsZero() {
		due = in.PeriodStart
	}
	inv := &model.Invoice{
		LeaseID:     lease.ID,
		TenantID:    lease.TenantID,
		PropertyID:  lease.PropertyID,
		Amount:      amount,
		Currency:    lease.Currency,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		DueDate:     due,
		Status:      model.InvoiceDraft,
		Description: strings.TrimSpace(in.Description),
	}
	return s.create(ctx, inv)
}

// create assigns identity fields, validates, and stores inv.
func (s *invoiceService) create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	exists, err := s.invoices.ExistsForPeriod(ctx, inv.LeaseID, inv.PeriodStart)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: lease already invoiced for period starting %s", ErrConflict, inv.PeriodStart.Format("2006-01-02"))
	}
	number, err := s.invoices.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate invoice number: %w", err)
	}
	inv.ID = uuid.NewString()
	inv.Number = number
	inv.CreatedAt = s.now().UTC()
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	stored, err := s.invoices.Create(ctx, inv)
	if err != nil {
		return nil, translate(err)
	}
	return stored, nil
}

// load returns an invoice visible to p: landlord of its property or the billed tenant.
func (s *invoiceService) load(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	switch p.Role {
	case model.RoleLandlord:
		if _, err := s.ownedProperty(ctx, p, inv.PropertyID); err != nil {
			return nil, err
		}
	case model.RoleTenant:
		if _, err := s.tenantRecord(ctx, p, inv.TenantID); err != nil {
			return nil, err
		}
	default:
		return nil, ErrForbidden
	}
	return inv, nil
}

func (s *invoiceService) Get(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error) {
	return s.load(ctx, p, id)
}

func (s *invoiceService) List(ctx context.Context, p auth.Principal, f InvoiceListFilter) (*ListResult[model.Invoice], error) {
	landlordID, tenantUserID, err := scope(p)
	if err != nil {
		return nil, err
	}
	res, err := s.invoices.List(ctx, repository.InvoiceFilter{
		LeaseID:      f.LeaseID,
		PropertyID:   f.PropertyID,
		Status:       f.Status,
		LandlordID:   landlordID,
		TenantUserID: tenantUserID,
	}, pageQuery(f.Limit, f.Offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

// invoiceParties are the records printed on an invoice.
type invoiceParties struct {
	property *model.Property
	landlord *model.User
	tenant   *model.User
}

func (s *invoiceService) parties(ctx context.Context, inv *model.Invoice) (*invoiceParties, error) {
	prop, err := s.properties.FindByID(ctx, inv.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", translate(err))
	}
	landlord, err := s.users.FindByID(ctx, prop.LandlordID)
	if err != nil {
		return nil, fmt.Errorf("load landlord: %w", translate(err))
	}
	t, err := s.tenants.FindByID(ctx, inv.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant: %w", translate(err))
	}
	tenantUser, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("load tenant user: %w", translate(err))
	}
	return &invoiceParties{property: prop, landlord: landlord, tenant: tenantUser}, nil
}

func (s *invoiceService) render(ctx context.Context, inv *model.Invoice, parties *invoiceParties, locale language.Tag) ([]byte, error) {
	payments, err := s.payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	return s.renderer.Render(pdf.InvoiceDocument{
		Invoice:  inv,
		Property: parties.property,
		Landlord: parties.landlord,
		Tenant:   parties.tenant,
		Payments: payments,
		Locale:   locale,
		IssuedAt: inv.CreatedAt,
	})
}

func (s *invoiceService) RenderPDF(ctx context.Context, p auth.Principal, id string, locale language.Tag) ([]byte, *model.Invoice, error) {
	inv, err := s.load(ctx, p, id)
	if err != nil {
		return nil, nil, err
	}
	parties, err := s.parties(ctx, inv)
	if err != nil {
		return nil, nil, err
	}
	if locale == language.Und {
		locale = s.locale
	}
	b, err := s.render(ctx, inv, parties, locale)
	if err != nil {
		return nil, nil, err
	}
	return b, inv, nil
}

func (s *invoiceService) Send(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error) {
	if !p.IsLandlord() {
		return nil, ErrForbidden
	}
	inv, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceVoid || inv.Status == model.InvoicePaid {
		return nil, fmt.Errorf("%w: cannot send a %s invoice", ErrInvalidTransition, inv.Status)
	}
	parties, err := s.parties(ctx, inv)
	if err != nil {
		return nil, err
	}
	doc, err := s.render(ctx, inv, parties, s.locale)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\n\nPlease find attached invoice %s for %s.\nAmount due: %s\nDue date: %s\n\n%s",
		parties.tenant.Name,
		inv.Number,
		parties.property.Name,
		money.MustFormat(inv.Balance(), inv.Currency, s.locale),
		inv.DueDate.Format("2006-01-02"),
		parties.landlord.Name,
	)
	if s.mailer != nil {
		err = s.mailer.Send(ctx, mail.Message{
			To:      []string{parties.tenant.Email},
			Subject: fmt.Sprintf("Invoice %s from %s", inv.Number, parties.property.Name),
			Body:    body,
			Attachments: []mail.Attachment{
				{Name: inv.Number + ".pdf", ContentType: "application/pdf", Data: doc},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("send invoice email: %w", err)
		}
	}

	now := s.now().UTC()
	if err := s.invoices.MarkSent(ctx, inv.ID, now); err != nil {
		return nil, translate(err)
	}
	inv.SentAt = &now
	if inv.Status == model.InvoiceDraft {
		inv.Status = model.InvoiceSent
	}

	notify(ctx, s.notifier, s.log, parties.tenant.ID, model.NotifyInvoiceSent,
		"New invoice "+inv.Number,
		fmt.Sprintf("%s due %s.", money.MustFormat(inv.Balance(), inv.Currency, s.locale), inv.DueDate.Format("2006-01-02")),
		"/invoices/"+inv.ID)
	return inv, nil
}

// Void cancels an invoice that has not collected any payment.
func (s *invoiceService) Void(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error) {
	if !p.IsLandlord() {
		return nil, ErrForbidden
	}
	inv, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceVoid || inv.Status == model.InvoicePaid || inv.AmountPaid > 0 {
		return nil, fmt.Errorf("%w: cannot void a %s invoice with %d collected", ErrInvalidTransition, inv.Status, inv.AmountPaid)
	}
	if err := s.invoices.UpdateStatus(ctx, inv.ID, inv.Status, model.InvoiceVoid); err != nil {
		return nil, translate(err)
	}
	inv.Status = model.InvoiceVoid
	return inv, nil
}

func (s *invoiceService) GenerateForPeriod(ctx context.Context, month time.Time) (GenerateResult, error) {
	var res GenerateResult
	periodStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	leases, err := s.leases.ListActive(ctx)
	if err != nil {
		return res, fmt.Errorf("list active leases: %w", err)
	}

	for i := range leases {
		lease := &leases[i]
		if lease.StartDate.After(periodEnd) || lease.EndDate.Before(periodStart) {
			res.Skipped++
			continue
		}
		inv := &model.Invoice{
			LeaseID:     lease.ID,
			TenantID:    lease.TenantID,
			PropertyID:  lease.PropertyID,
			Amount:      lease.RentAmount,
			Currency:    lease.Currency,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			DueDate:     periodStart.AddDate(0, 0, lease.BillingDay-1),
			Status:      model.InvoiceSent,
			Description: "Rent for " + periodStart.Format("January 2006"),
		}
		stored, err := s.create(ctx, inv)
		if errors.Is(err, ErrConflict) {
			res.Skipped++
			continue
		}
		if err != nil {
			res.Failed++
			s.log.Error().Str("event", "invoice_generate_failed").
				Str("lease_id", lease.ID).
				Str("error_message", err.Error()).Msg("")
			continue
		}
		res.Created++

		if err := s.invoices.MarkSent(ctx, stored.ID, s.now().UTC()); err != nil {
			s.log.Warn().Str("event", "invoice_mark_sent_failed").Str("invoice_id", stored.ID).Err(err).Msg("")
		}
		s.notifyTenant(ctx, stored, model.NotifyInvoiceSent, "New invoice "+stored.Number,
			fmt.Sprintf("%s due %s.", money.MustFormat(stored.Amount, stored.Currency, s.locale), stored.DueDate.Format("2006-01-02")))
	}

	s.log.Info().Str("event", "invoice_generate").
		Str("period", periodStart.Format("2006-01")).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).Msg("")
	return res, nil
}

func (s *invoiceService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.invoices.ListOverdueCandidates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list overdue candidates: %w", err)
	}
	marked := 0
	for i := range candidates {
		inv := &candidates[i]
		if !inv.IsOverdueAt(now) {
			continue
		}
		if err := s.invoices.UpdateStatus(ctx, inv.ID, inv.Status, model.InvoiceOverdue); err != nil {
			s.log.Warn().Str("event", "invoice_overdue_skipped").
				Str("invoice_id", inv.ID).
				Str("error_message", err.Error()).Msg("")
			continue
		}
		marked++
		s.notifyTenant(ctx, inv, model.NotifyInvoiceOverdue, "Invoice "+inv.Number+" is overdue",
			fmt.Sprintf("%s was due %s.", money.MustFormat(inv.Balance(), inv.Currency, s.locale), inv.DueDate.Format("2006-01-02")))
	}
	return marked, nil
}

func (s *invoiceService) notifyTenant(ctx context.Context, inv *model.Invoice, typ model.NotificationType, title, message string) {
	t, err := s.tenants.FindByID(ctx, inv.TenantID)
	if err != nil {
		s.log.Warn().Str("event", "notification_failed").Str("invoice_id", inv.ID).Err(err).Msg("")
		return
	}
	notify(ctx, s.notifier, s.log, t.UserID, typ, title, message, "/invoices/"+inv.ID)
}
