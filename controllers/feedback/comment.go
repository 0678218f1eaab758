package feedbackController

import (
	"log"

	"fbs/database"
	"fbs/middleware"
	"fbs/policy"
	"fbs/utils"
	feedbackValidator "fbs/validators/feedback"

	"github.com/gofiber/fiber/v2"
)

// AddComment writes the single comment slot. Subject only.
func AddComment(c *fiber.Ctx) error {
	return writeComment(c, true)
}

// UpdateComment rewrites the comment slot. Subject only.
func UpdateComment(c *fiber.Ctx) error {
	return writeComment(c, false)
}

func writeComment(c *fiber.Ctx, notify bool) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedComment").(*feedbackValidator.CommentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	fb, err := loadFeedback(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback not found!", nil)
	}

	viewer := actorOf(user)
	if !policy.Can(viewer, policy.ActionComment, policy.RecordOf(fb)) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the recipient can comment on feedback!", nil)
	}

	comment := reqData.Comment
	fb.Comment = &comment

	if err := database.Database.Db.Save(&fb).Error; err != nil {
		log.Printf("Error saving comment on feedback %d: %v", fb.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save comment!", nil)
	}

	if notify {
		// The stored author is addressed directly; masking is response-side only
		utils.NotifyCommentAdded(fb.Manager, user, fb.ID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment saved successfully!", presentFeedback(viewer, fb))
}

// DeleteComment clears the comment slot. Subject only.
func DeleteComment(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	fb, err := loadFeedback(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback not found!", nil)
	}

	viewer := actorOf(user)
	if !policy.Can(viewer, policy.ActionComment, policy.RecordOf(fb)) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the recipient can comment on feedback!", nil)
	}

	fb.Comment = nil
	if err := database.Database.Db.Save(&fb).Error; err != nil {
		log.Printf("Error clearing comment on feedback %d: %v", fb.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete comment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment deleted successfully!", presentFeedback(viewer, fb))
}
