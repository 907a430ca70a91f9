package model

import "time"

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceSent          InvoiceStatus = "sent"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceVoid          InvoiceStatus = "void"
)

// Invoice is a billing record for one lease period. Amounts are in minor units.
type Invoice struct {
	ID          string        `json:"id" validate:"required,uuid4"`
	Number      string        `json:"number" validate:"required,max=40"`
	LeaseID     string        `json:"lease_id" validate:"required,uuid4"`
	TenantID    string        `json:"tenant_id" validate:"required,uuid4"`
	PropertyID  string        `json:"property_id" validate:"required,uuid4"`
	Amount      int64         `json:"amount" validate:"gt=0,lte=1000000000000000"`
	AmountPaid  int64         `json:"amount_paid" validate:"gte=0"`
	Currency    string        `json:"currency" validate:"required,iso4217"`
	PeriodStart time.Time     `json:"period_start" validate:"required"`
	PeriodEnd   time.Time     `json:"period_end" validate:"required,gtfield=PeriodStart"`
	DueDate     time.Time     `json:"due_date" validate:"required"`
	Status      InvoiceStatus `json:"status" validate:"required,oneof=draft sent partially_paid paid overdue void"`
	Description string        `json:"description,omitempty" validate:"max=1000"`
	SentAt      *time.Time    `json:"sent_at,omitempty"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (i *Invoice) Validate() error { return validateStruct(i) }

// Balance is the amount still owed.
func (i *Invoice) Balance() int64 {
	if b := i.Amount - i.AmountPaid; b > 0 {
		return b
	}
	return 0
}

// AcceptsPayment reports whether payments may still be recorded against the invoice.
func (i *Invoice) AcceptsPayment() bool {
	return i.Status != InvoiceVoid && i.Status != InvoicePaid
}

// StatusAfterPayment derives the invoice status once paid has been collected in total.
func (i *Invoice) StatusAfterPayment(paid int64) InvoiceStatus {
	switch {
	case paid >= i.Amount:
		return InvoicePaid
	case paid > 0:
		return InvoicePartiallyPaid
	default:
		return i.Status
	}
}

// IsOverdueAt reports whether an outstanding invoice is past its due date at now.
// The due date is a calendar day, so the invoice stays payable until the end of
// that day in now's location.
func (i *Invoice) IsOverdueAt(now time.Time) bool {
	if i.Status != InvoiceSent && i.Status != InvoicePartiallyPaid {
		return false
	}
	y, m, d := i.DueDate.Date()
	dayAfterDue := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return !now.Before(dayAfterDue)
}

// PaymentMethod is how a payment was collected.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
	PaymentOther        PaymentMethod = "other"
)

// TenantRecordable reports whether a tenant may record a payment made this way.
// Cash and other payments are recorded by the landlord only.
func (m PaymentMethod) TenantRecordable() bool {
	return m == PaymentBankTransfer || m == PaymentCard
}

// Payment records money received against an invoice.
type Payment struct {
	ID        string        `json:"id" validate:"required,uuid4"`
	InvoiceID string        `json:"invoice_id" validate:"required,uuid4"`
	Amount    int64         `json:"amount" validate:"gt=0,lte=1000000000000000"`
	Currency  string        `json:"currency" validate:"required,iso4217"`
	Method    PaymentMethod `json:"method" validate:"required,oneof=cash bank_transfer card other"`
	Reference string        `json:"reference,omitempty" validate:"max=200"`
	PaidAt    time.Time     `json:"paid_at" validate:"required"`
	CreatedAt time.Time     `json:"created_at"`
}

func (p *Payment) Validate() error { return validateStruct(p) }
