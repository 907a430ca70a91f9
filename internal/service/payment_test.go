package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"propapi/internal/auth"
	"propapi/internal/model"
)

func newTestPaymentService(r *testRepos) *paymentService {
	svc := NewPaymentService(r.invoices, r.payments, r.properties, r.tenants, r.notifier(), language.English, zerolog.Nop()).(*paymentService)
	svc.now = fixedNow
	return svc
}

func TestPaymentService_Record(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		principal  auth.Principal
		invoice    func() *model.Invoice
		input      PaymentInput
		wantErr    error
		wantStatus model.InvoiceStatus
		wantPaid   int64
	}{
		{
			name:       "partial payment",
			principal:  landlord,
			invoice:    func() *model.Invoice { return sampleInvoice(model.InvoiceSent) },
			input:      PaymentInput{Amount: 50000, Method: model.PaymentBankTransfer, Reference: " TX-1 "},
			wantStatus: model.InvoicePartiallyPaid,
			wantPaid:   50000,
		},
		{
			name:      "settles overdue invoice",
			principal: tenant,
			invoice: func() *model.Invoice {
				inv := sampleInvoice(model.InvoiceOverdue)
				inv.AmountPaid = 100000
				return inv
			},
			input:      PaymentInput{Amount: 50000, Currency: "usd", Method: model.PaymentCard},
			wantStatus: model.InvoicePaid,
			wantPaid:   150000,
		},
		{
			name:      "currency mismatch",
			principal: landlord,
			invoice:   func() *model.Invoice { return sampleInvoice(model.InvoiceSent) },
			input:     PaymentInput{Amount: 100, Currency: "EUR", Method: model.PaymentCash},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "void invoice",
			principal: landlord,
			invoice:   func() *model.Invoice { return sampleInvoice(model.InvoiceVoid) },
			input:     PaymentInput{Amount: 100, Method: model.PaymentCash},
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "already paid",
			principal: landlord,
			invoice:   func() *model.Invoice { return sampleInvoice(model.InvoicePaid) },
			input:     PaymentInput{Amount: 100, Method: model.PaymentCash},
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "zero amount",
			principal: landlord,
			invoice:   func() *model.Invoice { return sampleInvoice(model.InvoiceSent) },
			input:     PaymentInput{Amount: 0, Method: model.PaymentCash},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "unknown method",
			principal: landlord,
			invoice:   func() *model.Invoice { return sampleInvoice(model.InvoiceSent) },
			input:     PaymentInput{Amount: 100, Method: "cheque"},
			wantErr:   ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRepos()
			svc := newTestPaymentService(r)
			inv := tt.invoice()

			r.invoices.On("FindByID", mock.Anything, invoiceID).Return(inv, nil)
			r.withProperty()
			if tt.principal.IsTenant() {
				r.withTenant()
			}
			r.payments.On("Record", mock.Anything, invoiceID).Return(inv, nil)
			if tt.wantErr == nil {
				r.expectNotification(landlordUserID, model.NotifyPaymentReceived)
			}

			pay, updated, err := svc.Record(ctx, tt.principal, invoiceID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				r.assertExpectations(t)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Amount, pay.Amount)
			assert.Equal(t, "USD", pay.Currency)
			assert.Equal(t, testNow, pay.PaidAt)
			assert.Equal(t, tt.wantStatus, updated.Status)
			assert.Equal(t, tt.wantPaid, updated.AmountPaid)
			if tt.wantStatus == model.InvoicePaid {
				require.NotNil(t, updated.PaidAt)
			} else {
				assert.Nil(t, updated.PaidAt)
			}
			r.assertExpectations(t)
		})
	}
}

func TestPaymentService_Forbidden(t *testing.T) {
	r := newTestRepos()
	svc := newTestPaymentService(r)
	r.invoices.On("FindByID", mock.Anything, invoiceID).Return(sampleInvoice(model.InvoiceSent), nil)
	r.withProperty()
	r.withTenant()

	_, _, err := svc.Record(context.Background(), strangerTenant, invoiceID, PaymentInput{Amount: 1, Method: model.PaymentCash})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListByInvoice(context.Background(), strangerLandlord, invoiceID)
	assert.ErrorIs(t, err, ErrForbidden)
	r.payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestPaymentService_TenantMethods(t *testing.T) {
	for _, method := range []model.PaymentMethod{model.PaymentCash, model.PaymentOther} {
		t.Run(string(method), func(t *testing.T) {
			r := newTestRepos()
			svc := newTestPaymentService(r)
			r.invoices.On("FindByID", mock.Anything, invoiceID).Return(sampleInvoice(model.InvoiceSent), nil)
			r.withProperty()
			r.withTenant()

			_, _, err := svc.Record(context.Background(), tenant, invoiceID, PaymentInput{Amount: 150000, Method: method})
			assert.ErrorIs(t, err, ErrForbidden)
			r.payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
			r.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentService_ListByInvoice(t *testing.T) {
	r := newTestRepos()
	svc := newTestPaymentService(r)
	r.invoices.On("FindByID", mock.Anything, invoiceID).Return(sampleInvoice(model.InvoiceSent), nil)
	r.withProperty()
	r.payments.On("ListByInvoice", mock.Anything, invoiceID).Return([]model.Payment{{ID: "p1", Amount: 10}}, nil)

	got, err := svc.ListByInvoice(context.Background(), landlord, invoiceID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	r.assertExpectations(t)
}
