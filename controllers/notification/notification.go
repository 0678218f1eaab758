package notificationController

import (
	"fbs/database"
	"fbs/middleware"
	"fbs/models"

	"github.com/gofiber/fiber/v2"
)

// NotificationList returns the caller's notifications, newest first.
func NotificationList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var notifications []models.Notification
	if err := database.Database.Db.
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	var unread int64
	database.Database.Db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userId, false).
		Count(&unread)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", fiber.Map{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkNotificationRead flips the read flag on one of the caller's notifications.
func MarkNotificationRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var notification models.Notification
	if err := database.Database.Db.
		Where("id = ? AND user_id = ?", c.Params("id"), userId).
		First(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	if !notification.Read {
		notification.Read = true
		if err := database.Database.Db.Save(&notification).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", notification)
}

// MarkAllNotificationsRead flips the read flag on every unread notification.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := database.Database.Db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userId, false).
		Update("read", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All notifications marked as read!", nil)
}
