package handler

import (
	"github.com/gofiber/fiber/v2"

	"propapi/internal/service"
)

// ListNotifications returns the caller's inbox, newest first. ?unread=true limits it to unread items.
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pagination(c)
		if err != nil {
			return writePaginationError(c, err)
		}
		res, err := svc.List(c.UserContext(), principal(c), c.QueryBool("unread"), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func UnreadNotificationCount(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.UnreadCount(c.UserContext(), principal(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"unread": n})
	}
}

func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeInvalidID(c)
		}
		if err := svc.MarkRead(c.UserContext(), principal(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func MarkAllNotificationsRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.MarkAllRead(c.UserContext(), principal(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"updated": n})
	}
}
