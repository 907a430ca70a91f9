package handler

import (
	"github.com/gofiber/fiber/v2"

	"propapi/internal/service"
)

// CreateProperty registers a property owned by the calling landlord.
func CreateProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.PropertyInput
		if err := c.BodyParser(&in); err != nil {
			return writeInvalidBody(c)
		}
		prop, err := svc.Create(c.UserContext(), principal(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(prop)
	}
}

// ListProperties lists owned properties for landlords and rented ones for tenants.
func ListProperties(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pagination(c)
		if err != nil {
			return writePaginationError(c, err)
		}
		res, err := svc.ListMine(c.UserContext(), principal(c), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		prop, err := svc.Get(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(prop)
	}
}

func ListPropertyTenants(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		tenants, err := svc.ListTenants(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": tenants})
	}
}

type submitRequestBody struct {
	Message string `json:"message"`
}

// SubmitPropertyRequest lets a tenant ask to join a property.
func SubmitPropertyRequest(svc service.PropertyRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		var body submitRequestBody
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return writeInvalidBody(c)
			}
		}
		req, err := svc.Submit(c.UserContext(), principal(c), id, body.Message)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

func ListPropertyRequests(svc service.PropertyRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		limit, offset, err := pagination(c)
		if err != nil {
			return writePaginationError(c, err)
		}
		res, err := svc.List(c.UserContext(), principal(c), id, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ApprovePropertyRequest accepts a pending request and returns the new tenancy.
func ApprovePropertyRequest(svc service.PropertyRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		tenant, err := svc.Approve(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tenant)
	}
}

type rejectRequestBody struct {
	Reason string `json:"reason"`
}

// RejectPropertyRequest declines a pending request with an optional reason.
//
//	@Summary	Reject a property request
//	@Tags		property-requests
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Request ID"
//	@Param		body	body		rejectRequestBody	false	"Rejection reason"
//	@Success	200		{object}	model.PropertyRequest
//	@Failure	404		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Security	BearerAuth
//	@Router		/api/v1/property-requests/{id}/reject [post]
func RejectPropertyRequest(svc service.PropertyRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		var body rejectRequestBody
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return writeInvalidBody(c)
			}
		}
		req, err := svc.Reject(c.UserContext(), principal(c), id, body.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}
