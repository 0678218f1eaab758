package notificationRoutes

import (
	notificationControllers "fbs/controllers/notification"
	"fbs/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications")

	notificationGroup.Get("/", middleware.JWTMiddleware, notificationControllers.NotificationList)
	notificationGroup.Post("/read-all", middleware.JWTMiddleware, notificationControllers.MarkAllNotificationsRead)
	notificationGroup.Post("/:id/read", middleware.JWTMiddleware, notificationControllers.MarkNotificationRead)
}
