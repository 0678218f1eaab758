package userRoutes

import (
	userControllers "fbs/controllers/userControllers"
	"fbs/middleware"
	userValidators "fbs/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")

	userGroup.Get("/profile", middleware.JWTMiddleware, userControllers.GetProfile)
	userGroup.Put("/profile", userValidators.UpdateProfile(), middleware.JWTMiddleware, userControllers.UpdateProfile)
	userGroup.Delete("/profile", middleware.JWTMiddleware, userControllers.DeleteProfile)
	userGroup.Get("/employees", middleware.JWTMiddleware, userControllers.EmployeeList)
	userGroup.Get("/managers", middleware.JWTMiddleware, userControllers.ManagerList)
}
