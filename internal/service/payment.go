package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"propapi/internal/auth"
	"propapi/internal/model"
	"propapi/internal/money"
	"propapi/internal/repository"
)

// PaymentInput is the payload for recording a payment. Currency defaults to the invoice's.
type PaymentInput struct {
	Amount    int64               `json:"amount"`
	Currency  string              `json:"currency"`
	Method    model.PaymentMethod `json:"method"`
	Reference string              `json:"reference"`
	PaidAt    time.Time           `json:"paid_at"`
}

// PaymentService defines the use cases for payments.
type PaymentService interface {
	// Record applies a payment to an invoice and re-derives the invoice status.
	Record(ctx context.Context, p auth.Principal, invoiceID string, in PaymentInput) (*model.Payment, *model.Invoice, error)
	ListByInvoice(ctx context.Context, p auth.Principal, invoiceID string) ([]model.Payment, error)
}

type paymentService struct {
	access
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	notifier Notifier
	locale   language.Tag
	log      zerolog.Logger
	now      func() time.Time
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	properties repository.PropertyRepository,
	tenants repository.TenantRepository,
	notifier Notifier,
	locale language.Tag,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		access:   access{properties: properties, tenants: tenants},
		invoices: invoices,
		payments: payments,
		notifier: notifier,
		locale:   locale,
		log:      logger.With().Str("component", "payments").Logger(),
		now:      time.Now,
	}
}

// authorize returns the invoice if p is its landlord or billed tenant.
func (s *paymentService) authorize(ctx context.Context, p auth.Principal, invoiceID string) (*model.Invoice, *model.Property, error) {
	if invoiceID == "" {
		return nil, nil, ErrIDRequired
	}
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, translate(err)
	}
	prop, err := s.properties.FindByID(ctx, inv.PropertyID)
	if err != nil {
		return nil, nil, translate(err)
	}
	switch p.Role {
	case model.RoleLandlord:
		if prop.LandlordID != p.UserID {
			return nil, nil, ErrForbidden
		}
	case model.RoleTenant:
		if _, err := s.tenantRecord(ctx, p, inv.TenantID); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, ErrForbidden
	}
	return inv, prop, nil
}

func (s *paymentService) Record(ctx context.Context, p auth.Principal, invoiceID string, in PaymentInput) (*model.Payment, *model.Invoice, error) {
	_, prop, err := s.authorize(ctx, p, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if p.IsTenant() && !in.Method.TenantRecordable() {
		return nil, nil, fmt.Errorf("%w: tenants may only record bank_transfer or card payments", ErrForbidden)
	}

	now := s.now().UTC()
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	apply := func(inv *model.Invoice) (*model.Payment, error) {
		if !inv.AcceptsPayment() {
			return nil, fmt.Errorf("%w: invoice is %s", ErrInvalidTransition, inv.Status)
		}
		currency := strings.ToUpper(strings.TrimSpace(in.Currency))
		if currency == "" {
			currency = inv.Currency
		}
		if currency != inv.Currency {
			return nil, model.Invalid("Currency", "must_match_invoice")
		}
		pay := &model.Payment{
			ID:        uuid.NewString(),
			InvoiceID: inv.ID,
			Amount:    in.Amount,
			Currency:  currency,
			Method:    in.Method,
			Reference: strings.TrimSpace(in.Reference),
			PaidAt:    paidAt,
			CreatedAt: now,
		}
		if err := pay.Validate(); err != nil {
			return nil, err
		}

		inv.AmountPaid += pay.Amount
		inv.Status = inv.StatusAfterPayment(inv.AmountPaid)
		if inv.Status == model.InvoicePaid {
			inv.PaidAt = &paidAt
		}
		return pay, nil
	}

	pay, inv, err := s.payments.Record(ctx, invoiceID, apply)
	if err != nil {
		return nil, nil, translate(err)
	}

	notify(ctx, s.notifier, s.log, prop.LandlordID, model.NotifyPaymentReceived,
		"Payment received for "+inv.Number,
		fmt.Sprintf("%s received, balance %s.",
			money.MustFormat(pay.Amount, pay.Currency, s.locale),
			money.MustFormat(inv.Balance(), inv.Currency, s.locale)),
		"/invoices/"+inv.ID)
	return pay, inv, nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, p auth.Principal, invoiceID string) ([]model.Payment, error) {
	if _, _, err := s.authorize(ctx, p, invoiceID); err != nil {
		return nil, err
	}
	return s.payments.ListByInvoice(ctx, invoiceID)
}
