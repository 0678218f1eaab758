package main

import (
	"fbs/config"
	"fbs/database"
	analyticsRoutes "fbs/routers/analyticsRoutes"
	authRoutes "fbs/routers/authRoutes"
	feedbackRoutes "fbs/routers/feedbackRoutes"
	notificationRoutes "fbs/routers/notificationRoutes"
	userRoutes "fbs/routers/userRoutes"
	"fbs/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	utils.InitializeReminderScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,PATCH",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the Feedback System API"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	feedbackRoutes.SetupFeedbackRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	analyticsRoutes.SetupAnalyticsRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
