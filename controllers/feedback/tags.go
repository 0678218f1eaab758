package feedbackController

import (
	"fbs/database"
	"fbs/middleware"
	"fbs/models"

	"github.com/gofiber/fiber/v2"
)

// TagList returns every tag ordered by name. Open to any authenticated user.
func TagList(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var tags []models.Tag
	if err := database.Database.Db.Order("name asc").Find(&tags).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tags!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tags fetched successfully!", tags)
}
