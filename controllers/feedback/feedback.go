package feedbackController

import (
	"errors"
	"log"
	"time"

	"fbs/config"
	"fbs/database"
	"fbs/middleware"
	"fbs/models"
	"fbs/policy"
	"fbs/utils"
	feedbackValidator "fbs/validators/feedback"

	"github.com/gofiber/fiber/v2"
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

func actorOf(user models.User) policy.Actor {
	return policy.Actor{ID: user.ID, Role: user.Role}
}

type userSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// feedbackView is the response shape of a feedback entry. Manager (the
// author) is nil when the viewer must not learn the author identity.
type feedbackView struct {
	ID               uint         `json:"id"`
	ManagerID        *uint        `json:"manager_id"`
	EmployeeID       uint         `json:"employee_id"`
	Manager          *userSummary `json:"manager"`
	Employee         userSummary  `json:"employee"`
	Strengths        string       `json:"strengths"`
	Improvements     string       `json:"improvements"`
	Sentiment        string       `json:"sentiment"`
	Acknowledged     bool         `json:"acknowledged"`
	AcknowledgedAt   *time.Time   `json:"acknowledged_at"`
	Comment          *string      `json:"comment"`
	Anonymous        bool         `json:"anonymous"`
	VisibleToManager bool         `json:"visible_to_manager"`
	Tags             []string     `json:"tags"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func summarize(user models.User) userSummary {
	return userSummary{ID: user.ID, Name: user.Name, Username: user.Username, Role: user.Role}
}

// presentFeedback shapes a row for one viewer. Masking happens here only;
// stored data is never altered.
func presentFeedback(viewer policy.Actor, fb models.Feedback) feedbackView {
	view := feedbackView{
		ID:               fb.ID,
		EmployeeID:       fb.EmployeeID,
		Employee:         summarize(fb.Employee),
		Strengths:        fb.Strengths,
		Improvements:     fb.Improvements,
		Sentiment:        fb.Sentiment,
		Acknowledged:     fb.Acknowledged,
		AcknowledgedAt:   fb.AcknowledgedAt,
		Comment:          fb.Comment,
		Anonymous:        fb.Anonymous,
		VisibleToManager: fb.VisibleToManager,
		Tags:             []string{},
		CreatedAt:        fb.CreatedAt,
		UpdatedAt:        fb.UpdatedAt,
	}

	for _, tag := range fb.Tags {
		view.Tags = append(view.Tags, tag.Name)
	}

	if !policy.MaskAuthor(viewer, policy.RecordOf(fb)) {
		managerID := fb.ManagerID
		view.ManagerID = &managerID
		author := summarize(fb.Manager)
		view.Manager = &author
	}

	return view
}

func loadFeedback(id string) (models.Feedback, error) {
	var fb models.Feedback
	err := database.Database.Db.
		Preload("Manager").
		Preload("Employee").
		Preload("Tags").
		First(&fb, "id = ?", id).Error
	return fb, err
}

func CreateFeedback(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedFeedback").(*feedbackValidator.CreateFeedbackRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var subject models.User
	if err := db.Where("id = ? AND disabled = ?", reqData.EmployeeID, false).First(&subject).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Employee not found!", nil)
	}

	err := policy.Create(actorOf(user), subject.Role, subject.ID, reqData.Anonymous, config.AppConfig.AllowSelfFeedback)
	switch {
	case errors.Is(err, policy.ErrAnonymousNotPeer), errors.Is(err, policy.ErrSelfFeedback):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, policy.ErrDenied):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot give feedback to this user!", nil)
	}

	tags, err := utils.GetOrCreateTags(db, reqData.Tags)
	if err != nil {
		log.Printf("Error resolving tags: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save tags!", nil)
	}

	fb := models.Feedback{
		ManagerID:        user.ID,
		EmployeeID:       subject.ID,
		Strengths:        reqData.Strengths,
		Improvements:     reqData.Improvements,
		Sentiment:        reqData.Sentiment,
		Anonymous:        reqData.Anonymous,
		VisibleToManager: reqData.Anonymous && reqData.VisibleToManager,
		Tags:             tags,
	}

	if err := db.Create(&fb).Error; err != nil {
		log.Printf("Error saving feedback: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create feedback!", nil)
	}

	// Best-effort side effect; never rolls back the write above
	utils.NotifyFeedbackReceived(subject, user, fb.ID, fb.Anonymous)

	fb.Manager = user
	fb.Employee = subject

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Feedback created successfully!", presentFeedback(actorOf(user), fb))
}

func FeedbackList(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	// Own entries either way, plus anonymous entries in masked shape
	scope := db.Model(&models.Feedback{}).
		Where("manager_id = ? OR employee_id = ? OR anonymous = ?", user.ID, user.ID, true)

	var total int64
	scope.Count(&total)

	var entries []models.Feedback
	if err := db.
		Where("manager_id = ? OR employee_id = ? OR anonymous = ?", user.ID, user.ID, true).
		Preload("Manager").
		Preload("Employee").
		Preload("Tags").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback!", nil)
	}

	viewer := actorOf(user)
	views := make([]feedbackView, 0, len(entries))
	for _, fb := range entries {
		views = append(views, presentFeedback(viewer, fb))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback fetched successfully!", fiber.Map{
		"feedback": views,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetFeedback(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	fb, err := loadFeedback(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback not found!", nil)
	}

	viewer := actorOf(user)
	if !policy.CanView(viewer, policy.RecordOf(fb)) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback fetched successfully!", presentFeedback(viewer, fb))
}

func UpdateFeedback(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedFeedbackUpdate").(*feedbackValidator.UpdateFeedbackRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	fb, err := loadFeedback(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback not found!", nil)
	}

	viewer := actorOf(user)
	if !policy.Can(viewer, policy.ActionUpdate, policy.RecordOf(fb)) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	db := database.Database.Db

	if reqData.Strengths != nil {
		fb.Strengths = *reqData.Strengths
	}
	if reqData.Improvements != nil {
		fb.Improvements = *reqData.Improvements
	}
	if reqData.Sentiment != nil {
		fb.Sentiment = *reqData.Sentiment
	}
	if reqData.Tags != nil {
		tags, err := utils.GetOrCreateTags(db, *reqData.Tags)
		if err != nil {
			log.Printf("Error resolving tags: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save tags!", nil)
		}
		if err := db.Model(&fb).Association("Tags").Replace(tags); err != nil {
			log.Printf("Error replacing tags: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save tags!", nil)
		}
		fb.Tags = tags
	}

	if err := db.Save(&fb).Error; err != nil {
		log.Printf("Error updating feedback %d: %v", fb.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update feedback!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback updated successfully!", presentFeedback(viewer, fb))
}

func DeleteFeedback(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	fb, err := loadFeedback(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback not found!", nil)
	}

	if !policy.Can(actorOf(user), policy.ActionDelete, policy.RecordOf(fb)) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	if err := database.Database.Db.Delete(&fb).Error; err != nil {
		log.Printf("Error deleting feedback %d: %v", fb.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete feedback!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback deleted successfully!", nil)
}

func AcknowledgeFeedback(c *fiber.Ctx) error {
	return setAcknowledged(c, true)
}

func UnacknowledgeFeedback(c *fiber.Ctx) error {
	return setAcknowledged(c, false)
}

// setAcknowledged flips acknowledged and acknowledged_at together, keeping the
// invariant that the timestamp is set exactly when the flag is.
func setAcknowledged(c *fiber.Ctx, acknowledged bool) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	fb, err := loadFeedback(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Feedback not found!", nil)
	}

	viewer := actorOf(user)
	if !policy.Can(viewer, policy.ActionAcknowledge, policy.RecordOf(fb)) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the recipient can acknowledge feedback!", nil)
	}

	fb.Acknowledged = acknowledged
	if acknowledged {
		now := time.Now()
		fb.AcknowledgedAt = &now
	} else {
		fb.AcknowledgedAt = nil
	}

	if err := database.Database.Db.Save(&fb).Error; err != nil {
		log.Printf("Error acknowledging feedback %d: %v", fb.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update feedback!", nil)
	}

	message := "Feedback acknowledged!"
	if !acknowledged {
		message = "Feedback unacknowledged!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, presentFeedback(viewer, fb))
}
