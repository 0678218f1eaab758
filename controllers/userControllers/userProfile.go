package userController

import (
	"fbs/config"
	"fbs/database"
	"fbs/middleware"
	"fbs/models"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// currentUser loads the active (non-disabled) user behind the token
func currentUser(c *fiber.Ctx) (models.User, bool) {
	var user models.User

	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return user, false
	}

	if err := database.Database.Db.Where("id = ? AND disabled = ?", userId, false).First(&user).Error; err != nil {
		return user, false
	}
	return user, true
}

func GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

func UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if reqData.Name != nil {
		user.Name = *reqData.Name
	}

	if reqData.Email != nil && *reqData.Email != user.Email {
		// New email must stay unique
		if err := db.Where("email = ? AND id <> ?", *reqData.Email, user.ID).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		user.Email = *reqData.Email
	}

	if reqData.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		user.Password = string(hashedPassword)
	}

	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// DeleteProfile removes the account and everything hanging off it: feedback
// where the user is author or subject, their requests, and their notifications.
func DeleteProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("manager_id = ? OR employee_id = ?", user.ID, user.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("manager_id = ? OR employee_id = ?", user.ID, user.ID).Delete(&models.FeedbackRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		log.Printf("Error deleting user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully!", nil)
}

// EmployeeList returns all employees. Managers only.
func EmployeeList(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if !user.IsManager() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only managers can view employees!", nil)
	}

	var employees []models.User
	if err := database.Database.Db.
		Where("role = ? AND disabled = ?", models.RoleEmployee, false).
		Order("name asc").
		Find(&employees).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch employees!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Employees fetched successfully!", employees)
}

// ManagerList returns all managers. Any authenticated user; employees need it
// to file feedback requests.
func ManagerList(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var managers []models.User
	if err := database.Database.Db.
		Where("role = ? AND disabled = ?", models.RoleManager, false).
		Order("name asc").
		Find(&managers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch managers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Managers fetched successfully!", managers)
}
