package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"propapi/internal/model"
	"propapi/internal/service"
)

const presignExpiry = 15 * time.Minute

type leaseBody struct {
	PropertyID string `json:"property_id"`
	TenantID   string `json:"tenant_id"`
	StartDate  date   `json:"start_date"`
	EndDate    date   `json:"end_date"`
	RentAmount int64  `json:"rent_amount"`
	Deposit    int64  `json:"deposit"`
	Currency   string `json:"currency"`
	BillingDay int    `json:"billing_day"`
}

type statusBody struct {
	Status string `json:"status"`
}

func CreateLease(svc service.LeaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body leaseBody
		if err := c.BodyParser(&body); err != nil {
			return writeInvalidBody(c)
		}
		lease, err := svc.Create(c.UserContext(), principal(c), service.LeaseInput{
			PropertyID: body.PropertyID,
			TenantID:   body.TenantID,
			StartDate:  body.StartDate.Time,
			EndDate:    body.EndDate.Time,
			RentAmount: body.RentAmount,
			Deposit:    body.Deposit,
			Currency:   body.Currency,
			BillingDay: body.BillingDay,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(lease)
	}
}

// ListLeases supports ?property_id= and ?status= filters plus limit/offset.
func ListLeases(svc service.LeaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pagination(c)
		if err != nil {
			return writePaginationError(c, err)
		}
		propertyID, ok := optionalUUID(c, "property_id")
		if !ok {
			return writeInvalidID(c)
		}
		res, err := svc.List(c.UserContext(), principal(c), service.LeaseListFilter{
			PropertyID: propertyID,
			Status:     model.LeaseStatus(c.Query("status")),
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetLease(svc service.LeaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		lease, err := svc.Get(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(lease)
	}
}

// TransitionLease moves a lease to the status named in the body.
func TransitionLease(svc service.LeaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		var body statusBody
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return writeInvalidBody(c)
		}
		lease, err := svc.Transition(c.UserContext(), principal(c), id, model.LeaseStatus(body.Status))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(lease)
	}
}

// UploadLeaseDocument accepts multipart/form-data with a "file" field and an
// optional "upload_id" field (or X-Upload-ID header) for progress polling.
func UploadLeaseDocument(svc service.LeaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		f, closeFile, err := formFile(c)
		if err != nil {
			return writeFileError(c, err)
		}
		defer closeFile()

		lease, err := svc.UploadDocument(c.UserContext(), principal(c), id, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(lease)
	}
}

// DownloadLeaseDocument streams the lease document, or redirects to a
// presigned URL when ?redirect=true.
//
//	@Summary	Download the signed lease document
//	@Tags		leases
//	@Produce	octet-stream
//	@Param		id			path	string	true	"Lease ID"
//	@Param		redirect	query	bool	false	"Redirect to a presigned storage URL"
//	@Success	200
//	@Success	307
//	@Failure	403	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Security	BearerAuth
//	@Router		/api/v1/leases/{id}/document [get]
func DownloadLeaseDocument(svc service.LeaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}

		if c.QueryBool("redirect") {
			url, err := svc.PresignDocument(c.UserContext(), principal(c), id, presignExpiry)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.Redirect(url, fiber.StatusTemporaryRedirect)
		}

		rc, info, lease, err := svc.DownloadDocument(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := info.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, contentDisposition("attachment", lease.DocumentName))
		size := int(info.Size)
		if info.Size <= 0 {
			size = -1
		}
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, size)
	}
}
