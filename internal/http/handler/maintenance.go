package handler

import (
	"github.com/gofiber/fiber/v2"

	"propapi/internal/model"
	"propapi/internal/service"
)

func CreateMaintenance(svc service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.MaintenanceInput
		if err := c.BodyParser(&in); err != nil {
			return writeInvalidBody(c)
		}
		req, err := svc.Create(c.UserContext(), principal(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

func ListMaintenance(svc service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pagination(c)
		if err != nil {
			return writePaginationError(c, err)
		}
		propertyID, ok := optionalUUID(c, "property_id")
		if !ok {
			return writeInvalidID(c)
		}
		res, err := svc.List(c.UserContext(), principal(c), service.MaintenanceListFilter{
			PropertyID: propertyID,
			Status:     model.MaintenanceStatus(c.Query("status")),
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetMaintenance(svc service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		req, err := svc.Get(c.UserContext(), principal(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}

func UpdateMaintenanceStatus(svc service.MaintenanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		var body statusBody
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return writeInvalidBody(c)
		}
		req, err := svc.UpdateStatus(c.UserContext(), principal(c), id, model.MaintenanceStatus(body.Status))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}

// AttachMaintenancePhoto accepts an image in the multipart "file" field.
func AttachMaintenancePhoto(svc service.MaintenanceService) fiber.Handler {
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

		req, err := svc.AttachPhoto(c.UserContext(), principal(c), id, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}
