package utils

import (
	"encoding/json"
	"fmt"
	"log"

	"fbs/config"
	"fbs/database"
	"fbs/models"

	"github.com/go-resty/resty/v2"
	"gorm.io/datatypes"
)

// dispatch persists the notification row, then mirrors it to email and the
// optional webhook in the background. The row is the primary effect; delivery
// failures are logged and never propagated to the caller.
func dispatch(user models.User, message, link string, meta map[string]interface{}) {
	notification := models.Notification{
		UserID:  user.ID,
		Message: message,
		Link:    link,
	}
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			notification.Meta = datatypes.JSON(raw)
		}
	}

	if err := database.Database.Db.Create(&notification).Error; err != nil {
		log.Printf("[NOTIFY] Failed to persist notification for user %d: %v", user.ID, err)
		return
	}

	go func() {
		if err := SendNotificationEmail(user.Email, user.Name, message, link); err != nil {
			log.Printf("[NOTIFY] Email delivery failed for user %d: %v", user.ID, err)
		}
		postWebhook(user.ID, message, link)
	}()
}

// postWebhook forwards the notification to an external side-channel, if one is
// configured. Best effort only.
func postWebhook(userID uint, message, link string) {
	url := config.AppConfig.NotifyWebhookURL
	if url == "" {
		return
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"userId":  userID,
			"message": message,
			"link":    link,
		}).
		Post(url)
	if err != nil {
		log.Printf("[NOTIFY] Webhook delivery failed: %v", err)
		return
	}
	if resp.StatusCode() >= 400 {
		log.Printf("[NOTIFY] Webhook returned status %d", resp.StatusCode())
	}
}

// NotifyFeedbackReceived tells the subject a new feedback entry exists.
func NotifyFeedbackReceived(subject models.User, author models.User, feedbackID uint, anonymous bool) {
	from := author.Name
	if anonymous {
		from = "a colleague"
	}
	message := fmt.Sprintf("You received new feedback from %s.", from)
	link := fmt.Sprintf("%s/feedback/%d", config.AppConfig.FrontendURL, feedbackID)

	dispatch(subject, message, link, map[string]interface{}{
		"type":       "feedback_received",
		"feedbackId": feedbackID,
	})
}

// NotifyFeedbackRequested tells a manager an employee asked them for feedback.
func NotifyFeedbackRequested(manager models.User, employee models.User, requestID uint) {
	message := fmt.Sprintf("%s has requested feedback from you.", employee.Name)
	link := fmt.Sprintf("%s/feedback-requests", config.AppConfig.FrontendURL)

	dispatch(manager, message, link, map[string]interface{}{
		"type":      "feedback_requested",
		"requestId": requestID,
	})
}

// NotifyRequestCompleted tells the employee their request was fulfilled.
func NotifyRequestCompleted(employee models.User, manager models.User, requestID uint) {
	message := fmt.Sprintf("%s has completed your feedback request.", manager.Name)
	link := fmt.Sprintf("%s/feedback-requests", config.AppConfig.FrontendURL)

	dispatch(employee, message, link, map[string]interface{}{
		"type":      "request_completed",
		"requestId": requestID,
	})
}

// NotifyCommentAdded tells the author the subject commented on their entry.
// The stored author is addressed directly; masking only applies to responses.
func NotifyCommentAdded(author models.User, subject models.User, feedbackID uint) {
	message := fmt.Sprintf("%s commented on your feedback.", subject.Name)
	link := fmt.Sprintf("%s/feedback/%d", config.AppConfig.FrontendURL, feedbackID)

	dispatch(author, message, link, map[string]interface{}{
		"type":       "comment_added",
		"feedbackId": feedbackID,
	})
}
