package analyticsController

import (
	"time"

	"fbs/database"
	"fbs/middleware"
	"fbs/models"
	"fbs/policy"

	"github.com/gofiber/fiber/v2"
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

// scopeColumn picks the side of the feedback table the requester owns:
// managers aggregate what they authored, employees what they received.
func scopeColumn(user models.User) string {
	if user.IsManager() {
		return "manager_id"
	}
	return "employee_id"
}

func scopedFeedback(db *gorm.DB, user models.User) *gorm.DB {
	return db.Model(&models.Feedback{}).Where(scopeColumn(user)+" = ?", user.ID)
}

// DashboardStats returns totals by sentiment plus the acknowledged count.
func DashboardStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var total, positive, neutral, negative, acknowledged int64
	scopedFeedback(db, user).Count(&total)
	scopedFeedback(db, user).Where("sentiment = ?", models.SentimentPositive).Count(&positive)
	scopedFeedback(db, user).Where("sentiment = ?", models.SentimentNeutral).Count(&neutral)
	scopedFeedback(db, user).Where("sentiment = ?", models.SentimentNegative).Count(&negative)
	scopedFeedback(db, user).Where("acknowledged = ?", true).Count(&acknowledged)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_feedback":        total,
		"positive_feedback":     positive,
		"neutral_feedback":      neutral,
		"negative_feedback":     negative,
		"acknowledged_feedback": acknowledged,
	})
}

// trailingWindow resolves the ?days query into day buckets ending today.
func trailingWindow(c *fiber.Ctx) (time.Time, int) {
	days := c.QueryInt("days", 7)
	if days < 1 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))
	return start, days
}

// FeedbackTrend returns daily feedback counts over the trailing window,
// zero-filled for days with no feedback.
func FeedbackTrend(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	start, days := trailingWindow(c)

	var entries []models.Feedback
	if err := scopedFeedback(database.Database.Db, user).
		Where("created_at >= ?", start).
		Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback!", nil)
	}

	counts := make(map[string]int64)
	for _, fb := range entries {
		counts[fb.CreatedAt.Format("2006-01-02")]++
	}

	trend := make([]fiber.Map, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, fiber.Map{
			"date":  day,
			"count": counts[day],
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback trend fetched successfully!", trend)
}

// AckRate returns the per-day acknowledgment rate over the trailing window.
func AckRate(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	start, days := trailingWindow(c)

	var entries []models.Feedback
	if err := scopedFeedback(database.Database.Db, user).
		Where("created_at >= ?", start).
		Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback!", nil)
	}

	totals := make(map[string]int64)
	acked := make(map[string]int64)
	for _, fb := range entries {
		day := fb.CreatedAt.Format("2006-01-02")
		totals[day]++
		if fb.Acknowledged {
			acked[day]++
		}
	}

	rates := make([]fiber.Map, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		rate := 0.0
		if totals[day] > 0 {
			rate = float64(acked[day]) / float64(totals[day])
		}
		rates = append(rates, fiber.Map{
			"date":         day,
			"total":        totals[day],
			"acknowledged": acked[day],
			"rate":         rate,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Acknowledgment rate fetched successfully!", rates)
}

// TopTags returns the most frequent tags in the requester's scope.
func TopTags(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 {
		limit = 5
	}

	type tagCount struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}

	var rows []tagCount
	if err := database.Database.Db.Model(&models.Tag{}).
		Select("tags.name, count(*) as count").
		Joins("JOIN feedback_tags ON feedback_tags.tag_id = tags.id").
		Joins("JOIN feedbacks ON feedbacks.id = feedback_tags.feedback_id").
		Where("feedbacks.deleted_at IS NULL").
		Where("feedbacks."+scopeColumn(user)+" = ?", user.ID).
		Group("tags.name").
		Order("count DESC, tags.name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tags!", nil)
	}

	if rows == nil {
		rows = []tagCount{}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Top tags fetched successfully!", rows)
}

// Unacknowledged lists the requester's unacknowledged feedback entries,
// masked at the boundary like every other read.
func Unacknowledged(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var entries []models.Feedback
	if err := database.Database.Db.
		Where(scopeColumn(user)+" = ? AND acknowledged = ?", user.ID, false).
		Preload("Manager").
		Preload("Employee").
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback!", nil)
	}

	viewer := policy.Actor{ID: user.ID, Role: user.Role}
	views := make([]fiber.Map, 0, len(entries))
	for _, fb := range entries {
		view := fiber.Map{
			"id":          fb.ID,
			"employee_id": fb.EmployeeID,
			"strengths":   fb.Strengths,
			"sentiment":   fb.Sentiment,
			"anonymous":   fb.Anonymous,
			"created_at":  fb.CreatedAt,
		}
		if !policy.MaskAuthor(viewer, policy.RecordOf(fb)) {
			view["manager_id"] = fb.ManagerID
			view["manager_name"] = fb.Manager.Name
		}
		views = append(views, view)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unacknowledged feedback fetched successfully!", views)
}
