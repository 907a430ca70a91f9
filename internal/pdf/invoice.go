package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"

	"propapi/internal/model"
	"propapi/internal/money"
)

var ErrInvoiceRequired = errors.New("invoice is required")

// InvoiceDocument is everything the invoice template prints.
type InvoiceDocument struct {
	Invoice  *model.Invoice
	Property *model.Property
	Landlord *model.User
	Tenant   *model.User
	Payments []model.Payment
	Locale   language.Tag
	IssuedAt time.Time
}

// InvoiceRenderer draws invoices onto a fixed A4 template.
type InvoiceRenderer struct {
	Creator string
}

// NewInvoiceRenderer returns a renderer that stamps creator into the PDF metadata.
func NewInvoiceRenderer(creator string) *InvoiceRenderer {
	return &InvoiceRenderer{Creator: creator}
}

const (
	pageMargin = 15.0
	lineHeight = 6.0
	labelWidth = 45.0
	colDesc    = 110.0
	colAmount  = 70.0
)

// Render returns the PDF bytes for doc.
func (r *InvoiceRenderer) Render(doc InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	if inv == nil {
		return nil, ErrInvoiceRequired
	}
	issued := doc.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle("Invoice "+inv.Number, true)
	pdf.SetCreator(r.Creator, true)
	pdf.SetCreationDate(issued)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	format := func(v int64) string { return tr(plainSpaces(money.MustFormat(v, inv.Currency, doc.Locale))) }

	pdf.AddPage()

	// header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	field(pdf, tr, "Invoice number", inv.Number)
	field(pdf, tr, "Issued", issued.Format("2006-01-02"))
	field(pdf, tr, "Due date", inv.DueDate.Format("2006-01-02"))
	field(pdf, tr, "Status", string(inv.Status))
	pdf.Ln(4)

	if p := doc.Property; p != nil {
		section(pdf, "Property")
		pdf.CellFormat(0, lineHeight, tr(p.Name), "", 1, "L", false, 0, "")
		pdf.MultiCell(0, lineHeight, tr(joinNonEmpty(p.Address, p.City, p.Country)), "", "L", false)
		if l := doc.Landlord; l != nil {
			field(pdf, tr, "Landlord", l.Name)
			field(pdf, tr, "Email", l.Email)
		}
		pdf.Ln(2)
	}

	if t := doc.Tenant; t != nil {
		section(pdf, "Bill to")
		pdf.CellFormat(0, lineHeight, tr(t.Name), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, tr(t.Email), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	section(pdf, "Items")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(colDesc, lineHeight+1, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colAmount, lineHeight+1, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	desc := inv.Description
	if desc == "" {
		desc = fmt.Sprintf("Rent %s to %s", inv.PeriodStart.Format("2006-01-02"), inv.PeriodEnd.Format("2006-01-02"))
	}
	pdf.CellFormat(colDesc, lineHeight+1, tr(desc), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colAmount, lineHeight+1, format(inv.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(2)

	totalRow(pdf, "Total", format(inv.Amount))

	if len(doc.Payments) > 0 {
		pdf.Ln(2)
		section(pdf, "Payments received")
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range doc.Payments {
			label := fmt.Sprintf("%s  %s", p.PaidAt.Format("2006-01-02"), p.Method)
			if p.Reference != "" {
				label += "  " + p.Reference
			}
			pdf.CellFormat(colDesc, lineHeight, tr(label), "", 0, "L", false, 0, "")
			pdf.CellFormat(colAmount, lineHeight, format(p.Amount), "", 1, "R", false, 0, "")
		}
	}
	totalRow(pdf, "Paid", format(inv.AmountPaid))
	pdf.SetFont("Helvetica", "B", 12)
	totalRow(pdf, "Balance due", format(inv.Balance()))

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineHeight+2, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func field(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.CellFormat(labelWidth, lineHeight, label+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr(value), "", 1, "L", false, 0, "")
}

func totalRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(colDesc, lineHeight+1, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, lineHeight+1, value, "", 1, "R", false, 0, "")
}

// plainSpaces replaces locale grouping spaces such as U+00A0 and U+202F with ASCII spaces.
func plainSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
