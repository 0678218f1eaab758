package feedbackController

import (
	"log"
	"time"

	"fbs/database"
	"fbs/middleware"
	"fbs/models"
	"fbs/utils"
	feedbackValidator "fbs/validators/feedback"

	"github.com/gofiber/fiber/v2"
)

// CreateFeedbackRequest lets an employee ask a named manager for feedback.
func CreateFeedbackRequest(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.IsManager() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only employees can request feedback!", nil)
	}

	reqData, ok := c.Locals("validatedRequest").(*feedbackValidator.CreateRequestRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var manager models.User
	if err := db.Where("id = ? AND role = ? AND disabled = ?", reqData.ManagerID, models.RoleManager, false).First(&manager).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Manager not found!", nil)
	}

	request := models.FeedbackRequest{
		EmployeeID: user.ID,
		ManagerID:  manager.ID,
		Status:     models.RequestPending,
	}

	if err := db.Create(&request).Error; err != nil {
		log.Printf("Error saving feedback request: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create feedback request!", nil)
	}

	utils.NotifyFeedbackRequested(manager, user, request.ID)

	request.Employee = user
	request.Manager = manager

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Feedback request created successfully!", request)
}

// FeedbackRequestList returns the caller's requests: filed ones for
// employees, received ones for managers.
func FeedbackRequestList(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.
		Preload("Employee").
		Preload("Manager").
		Order("created_at DESC")

	var requests []models.FeedbackRequest
	var err error
	if user.IsManager() {
		err = db.Where("manager_id = ?", user.ID).Find(&requests).Error
	} else {
		err = db.Where("employee_id = ?", user.ID).Find(&requests).Error
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback requests fetched successfully!", requests)
}

// CompleteFeedbackRequest marks a request completed. Only the named manager,
// and only once; completed is terminal.
func CompleteFeedbackRequest(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if !user.IsManager() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only managers can complete feedback requests!", nil)
	}

	db := database.Database.Db

	var request models.FeedbackRequest
	if err := db.Preload("Employee").First(&request, "id = ?", c.Params("id")).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback request not found!", nil)
	}

	if request.ManagerID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	if request.Status == models.RequestCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Feedback request is already completed!", nil)
	}

	now := time.Now()
	// Guard the transition in the WHERE clause so a concurrent completion
	// cannot re-stamp completed_at
	result := db.Model(&models.FeedbackRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestPending).
		Updates(map[string]interface{}{"status": models.RequestCompleted, "completed_at": now})
	if result.Error != nil {
		log.Printf("Error completing feedback request %d: %v", request.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete feedback request!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Feedback request is already completed!", nil)
	}

	utils.NotifyRequestCompleted(request.Employee, user, request.ID)

	request.Status = models.RequestCompleted
	request.CompletedAt = &now
	request.Manager = user

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback request completed successfully!", request)
}
