package analyticsRoutes

import (
	analyticsControllers "fbs/controllers/analytics"
	"fbs/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalyticsRoutes(app *fiber.App) {
	analyticsGroup := app.Group("/analytics")

	analyticsGroup.Get("/dashboard", middleware.JWTMiddleware, analyticsControllers.DashboardStats)
	analyticsGroup.Get("/trend", middleware.JWTMiddleware, analyticsControllers.FeedbackTrend)
	analyticsGroup.Get("/ack-rate", middleware.JWTMiddleware, analyticsControllers.AckRate)
	analyticsGroup.Get("/top-tags", middleware.JWTMiddleware, analyticsControllers.TopTags)
	analyticsGroup.Get("/unacknowledged", middleware.JWTMiddleware, analyticsControllers.Unacknowledged)
}
