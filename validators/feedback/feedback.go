package feedbackValidator

import (
	"fbs/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateFeedbackRequest is the payload for creating a feedback entry.
type CreateFeedbackRequest struct {
	EmployeeID       uint     `json:"employee_id" validate:"required"`
	Strengths        string   `json:"strengths" validate:"required"`
	Improvements     string   `json:"improvements" validate:"required"`
	Sentiment        string   `json:"sentiment" validate:"required,oneof=positive neutral negative"`
	Tags             []string `json:"tags" validate:"omitempty,dive,max=50"`
	Anonymous        bool     `json:"anonymous"`
	VisibleToManager bool     `json:"visible_to_manager"`
}

// UpdateFeedbackRequest is the payload for editing a feedback entry.
type UpdateFeedbackRequest struct {
	Strengths    *string   `json:"strengths" validate:"omitempty,min=1"`
	Improvements *string   `json:"improvements" validate:"omitempty,min=1"`
	Sentiment    *string   `json:"sentiment" validate:"omitempty,oneof=positive neutral negative"`
	Tags         *[]string `json:"tags" validate:"omitempty,dive,max=50"`
}

// CommentRequest is the payload for the subject's comment slot.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// CreateRequestRequest is the payload for a feedback request.
type CreateRequestRequest struct {
	ManagerID uint `json:"manager_id" validate:"required"`
}

// fieldErrors flattens validator.ValidationErrors into the response error map
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				errors[fe.Field()] = "This field is required!"
			case "oneof":
				errors[fe.Field()] = "Value must be one of: " + fe.Param()
			default:
				errors[fe.Field()] = "Invalid value!"
			}
		}
	} else {
		errors["body"] = "Invalid request body!"
	}
	return errors
}

// CreateFeedback validator middleware
func CreateFeedback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateFeedbackRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedFeedback", reqData)
		return c.Next()
	}
}

// UpdateFeedback validator middleware
func UpdateFeedback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateFeedbackRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedFeedbackUpdate", reqData)
		return c.Next()
	}
}

// Comment validator middleware
func Comment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CommentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedComment", reqData)
		return c.Next()
	}
}

// CreateRequest validator middleware
func CreateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequestRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedRequest", reqData)
		return c.Next()
	}
}
