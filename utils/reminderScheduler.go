package utils

import (
	"fmt"
	"log"
	"time"

	"fbs/config"
	"fbs/database"
	"fbs/models"

	"github.com/robfig/cron/v3"
)

// InitializeReminderScheduler sets up the daily reminder job
func InitializeReminderScheduler() {
	log.Println("[REMINDER-SCHEDULER] Initializing reminder scheduler...")

	c := cron.New()

	// Run daily at 9 AM server time
	c.AddFunc("0 9 * * *", func() {
		log.Println("[REMINDER-SCHEDULER] Running daily reminder check...")
		RemindPendingRequests()
		RemindUnacknowledgedFeedback()
	})

	c.Start()
	log.Println("[REMINDER-SCHEDULER] Reminder scheduler started - runs daily at 9 AM")
}

// RemindPendingRequests emails managers about feedback requests
// that have been pending for more than 2 days.
func RemindPendingRequests() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -2)

	var requests []models.FeedbackRequest
	if err := db.
		Where("status = ? AND created_at < ?", models.RequestPending, cutoff).
		Preload("Manager").
		Preload("Employee").
		Find(&requests).Error; err != nil {
		log.Printf("[REMINDER-SCHEDULER] Error fetching pending requests: %v", err)
		return
	}

	log.Printf("[REMINDER-SCHEDULER] Found %d stale pending requests", len(requests))

	for _, req := range requests {
		message := fmt.Sprintf("%s is still waiting for feedback you were asked for on %s.",
			req.Employee.Name, req.CreatedAt.Format("Jan 2"))
		link := fmt.Sprintf("%s/feedback-requests", config.AppConfig.FrontendURL)

		if err := SendReminderEmail(req.Manager.Email, req.Manager.Name, message, link); err != nil {
			log.Printf("[REMINDER-SCHEDULER] Failed to remind manager %d: %v", req.ManagerID, err)
			continue
		}
		log.Printf("[REMINDER-SCHEDULER] Sent pending-request reminder for request %d to %s", req.ID, req.Manager.Email)
	}
}

// RemindUnacknowledgedFeedback emails subjects about feedback entries
// they have not acknowledged within 7 days.
func RemindUnacknowledgedFeedback() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -7)

	var entries []models.Feedback
	if err := db.
		Where("acknowledged = ? AND created_at < ?", false, cutoff).
		Preload("Employee").
		Find(&entries).Error; err != nil {
		log.Printf("[REMINDER-SCHEDULER] Error fetching unacknowledged feedback: %v", err)
		return
	}

	log.Printf("[REMINDER-SCHEDULER] Found %d unacknowledged feedback entries", len(entries))

	for _, fb := range entries {
		message := "You have feedback waiting for your acknowledgment."
		link := fmt.Sprintf("%s/feedback/%d", config.AppConfig.FrontendURL, fb.ID)

		if err := SendReminderEmail(fb.Employee.Email, fb.Employee.Name, message, link); err != nil {
			log.Printf("[REMINDER-SCHEDULER] Failed to remind user %d: %v", fb.EmployeeID, err)
			continue
		}
	}
}
