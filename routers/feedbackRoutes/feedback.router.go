package feedbackRoutes

import (
	feedbackControllers "fbs/controllers/feedback"
	"fbs/middleware"
	feedbackValidators "fbs/validators/feedback"

	"github.com/gofiber/fiber/v2"
)

func SetupFeedbackRoutes(app *fiber.App) {
	feedbackGroup := app.Group("/feedback")

	// Static paths are registered before /:id so they are not captured by it
	feedbackGroup.Get("/tags", middleware.JWTMiddleware, feedbackControllers.TagList)
	feedbackGroup.Post("/requests", feedbackValidators.CreateRequest(), middleware.JWTMiddleware, feedbackControllers.CreateFeedbackRequest)
	feedbackGroup.Get("/requests", middleware.JWTMiddleware, feedbackControllers.FeedbackRequestList)
	feedbackGroup.Patch("/requests/:id/complete", middleware.JWTMiddleware, feedbackControllers.CompleteFeedbackRequest)

	feedbackGroup.Post("/", feedbackValidators.CreateFeedback(), middleware.JWTMiddleware, feedbackControllers.CreateFeedback)
	feedbackGroup.Get("/", middleware.JWTMiddleware, feedbackControllers.FeedbackList)
	feedbackGroup.Get("/:id", middleware.JWTMiddleware, feedbackControllers.GetFeedback)
	feedbackGroup.Put("/:id", feedbackValidators.UpdateFeedback(), middleware.JWTMiddleware, feedbackControllers.UpdateFeedback)
	feedbackGroup.Delete("/:id", middleware.JWTMiddleware, feedbackControllers.DeleteFeedback)

	feedbackGroup.Post("/:id/acknowledge", middleware.JWTMiddleware, feedbackControllers.AcknowledgeFeedback)
	feedbackGroup.Post("/:id/unacknowledge", middleware.JWTMiddleware, feedbackControllers.UnacknowledgeFeedback)

	feedbackGroup.Post("/:id/comment", feedbackValidators.Comment(), middleware.JWTMiddleware, feedbackControllers.AddComment)
	feedbackGroup.Put("/:id/comment", feedbackValidators.Comment(), middleware.JWTMiddleware, feedbackControllers.UpdateComment)
	feedbackGroup.Delete("/:id/comment", middleware.JWTMiddleware, feedbackControllers.DeleteComment)
}
