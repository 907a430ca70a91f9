package handler

import (
	"github.com/gofiber/fiber/v2"

	"propapi/internal/http/middleware"
	"propapi/internal/model"
	"propapi/internal/service"
)

type invoiceBody struct {
	LeaseID     string `json:"lease_id"`
	Amount      int64  `json:"amount"`
	PeriodStart date   `json:"period_start"`
	PeriodEnd   date   `json:"period_end"`
	DueDate     date   `json:"due_date"`
	Description string `json:"description"`
}

type paymentBody struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
	PaidAt    date   `json:"paid_at"`
}

type paymentResponse struct {
	Payment *model.Payment `json:"payment"`
	Invoice *model.Invoice `json:"invoice"`
}

func CreateInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body invoiceBody
		if err := c.BodyParser(&body); err != nil {
			return writeInvalidBody(c)
		}
		inv, err := svc.Create(c.UserContext(), principal(c), service.InvoiceInput{
			LeaseID:     body.LeaseID,
			Amount:      body.Amount,
			PeriodStart: body.PeriodStart.Time,
			PeriodEnd:   body.PeriodEnd.Time,
			DueDate:     body.DueDate.Time,
			Description: body.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(inv)
	}
}

// ListInvoices supports ?lease_id=, ?property_id= and ?status= filters plus limit/offset.
func ListInvoices(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pagination(c)
		if err != nil {
			return writePaginationError(c, err)
		}
		leaseID, ok := optionalUUID(c, "lease_id")
		if !ok {
			return writeInvalidID(c)
		}
		propertyID, ok := optionalUUID(c, "property_id")
		if !ok {
			return writeInvalidID(c)
		}
		res, err := svc.List(c.UserContext(), principal(c), service.InvoiceListFilter{
			LeaseID:    leaseID,
			PropertyID: propertyID,
			Status:     model.InvoiceStatus(c.Query("status")),
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		inv, err := svc.Get(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(inv)
	}
}

// DownloadInvoicePDF renders the invoice in the negotiated locale.
//
//	@Summary	Download an invoice as PDF
//	@Tags		invoices
//	@Produce	application/pdf
//	@Param		id		path	string	true	"Invoice ID"
//	@Param		locale	query	string	false	"Locale for amounts and dates, e.g. de"
//	@Success	200
//	@Failure	403	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Security	BearerAuth
//	@Router		/api/v1/invoices/{id}/pdf [get]
func DownloadInvoicePDF(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		doc, inv, err := svc.RenderPDF(c.UserContext(), principal(c), id, middleware.LocaleFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		disposition := "attachment"
		if c.QueryBool("inline") {
			disposition = "inline"
		}
		c.Set(fiber.HeaderContentDisposition, contentDisposition(disposition, inv.Number+".pdf"))
		return c.Send(doc)
	}
}

// SendInvoice emails the invoice to the tenant and marks it sent.
//
//	@Summary	Send an invoice to the tenant
//	@Tags		invoices
//	@Produce	json
//	@Param		id	path		string	true	"Invoice ID"
//	@Success	200	{object}	model.Invoice
//	@Failure	409	{object}	errorPayload
//	@Failure	500	{object}	errorPayload
//	@Security	BearerAuth
//	@Router		/api/v1/invoices/{id}/send [post]
func SendInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		inv, err := svc.Send(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(inv)
	}
}

func VoidInvoice(svc service.InvoiceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		inv, err := svc.Void(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(inv)
	}
}

func ListPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		payments, err := svc.ListByInvoice(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": payments})
	}
}

// RecordPayment applies a payment and returns it with the updated invoice.
func RecordPayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		var body paymentBody
		if err := c.BodyParser(&body); err != nil {
			return writeInvalidBody(c)
		}
		pay, inv, err := svc.Record(c.UserContext(), principal(c), id, service.PaymentInput{
			Amount:    body.Amount,
			Currency:  body.Currency,
			Method:    model.PaymentMethod(body.Method),
			Reference: body.Reference,
			PaidAt:    body.PaidAt.Time,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(paymentResponse{Payment: pay, Invoice: inv})
	}
}
