package pdf

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"propapi/internal/model"
)

func sampleDocument() InvoiceDocument {
	due := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	return InvoiceDocument{
		Invoice: &model.Invoice{
			Number:      "INV-001042",
			Amount:      150000,
			AmountPaid:  50000,
			Currency:    "USD",
			PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			DueDate:     due,
			Status:      model.InvoicePartiallyPaid,
		},
		Property: &model.Property{Name: "Maple Court 4B", Address: "12 Maple St", City: "Springfield", Country: "US"},
		Landlord: &model.User{Name: "Dana Owner", Email: "dana@example.com"},
		Tenant:   &model.User{Name: "Renée Tenant", Email: "renee@example.com"},
		Payments: []model.Payment{
			{Amount: 50000, Method: model.PaymentBankTransfer, Reference: "TX-1", PaidAt: due.AddDate(0, 0, -2)},
		},
		Locale:   language.English,
		IssuedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestInvoiceRenderer_Render(t *testing.T) {
	out, err := NewInvoiceRenderer("propapi").Render(sampleDocument())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestInvoiceRenderer_Deterministic(t *testing.T) {
	r := NewInvoiceRenderer("propapi")
	a, err := r.Render(sampleDocument())
	require.NoError(t, err)
	b, err := r.Render(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestInvoiceRenderer_MinimalDocument(t *testing.T) {
	doc := InvoiceDocument{Invoice: &model.Invoice{Number: "INV-1", Amount: 1000, Currency: "JPY"}}
	out, err := NewInvoiceRenderer("").Render(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestInvoiceRenderer_NilInvoice(t *testing.T) {
	_, err := NewInvoiceRenderer("propapi").Render(InvoiceDocument{})
	assert.ErrorIs(t, err, ErrInvoiceRequired)
}

// pageText inflates every compressed stream in a rendered PDF.
func pageText(t *testing.T, out []byte) string {
	t.Helper()
	var text bytes.Buffer
	rest := out
	for {
		i := bytes.Index(rest, []byte("stream\n"))
		if i < 0 {
			break
		}
		rest = rest[i+len("stream\n"):]
		j := bytes.Index(rest, []byte("endstream"))
		if j < 0 {
			break
		}
		if zr, err := zlib.NewReader(bytes.NewReader(rest[:j])); err == nil {
			if b, err := io.ReadAll(zr); err == nil {
				text.Write(b)
			}
		}
		rest = rest[j+len("endstream"):]
	}
	return text.String()
}

func TestInvoiceRenderer_FrenchAmounts(t *testing.T) {
	doc := sampleDocument()
	doc.Invoice.Amount = 123450
	doc.Invoice.AmountPaid = 0
	doc.Invoice.Currency = "EUR"
	doc.Payments = nil
	doc.Locale = language.French

	out, err := NewInvoiceRenderer("propapi").Render(doc)
	require.NoError(t, err)

	text := pageText(t, out)
	assert.Contains(t, text, "(EUR 1 234,50)")
	assert.NotContains(t, text, "\xc2\xa0")
	assert.NotContains(t, text, "\u202f")
}

func TestPlainSpaces(t *testing.T) {
	assert.Equal(t, "EUR 1 234,50", plainSpaces("EUR 1\u00a0234,50"))
	assert.Equal(t, "EUR 1 234,50", plainSpaces("EUR 1\u202f234,50"))
	assert.Equal(t, "USD 1,234.50", plainSpaces("USD 1,234.50"))
}
