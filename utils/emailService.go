package utils

import (
	"fbs/config"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through SendGrid when an API key is
// configured, falling back to plain SMTP otherwise.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendgridKey != "" {
		return sendViaSendgrid(to, subject, htmlBody)
	}
	if config.AppConfig.EmailSender == "" {
		return fmt.Errorf("no email provider configured")
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendgrid(to []string, subject, htmlBody string) error {
	from := mail.NewEmail("Feedback System", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(config.AppConfig.SendgridKey)

	for _, rcpt := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", rcpt), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("Error sending email via SendGrid: %v", err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("SendGrid rejected email to %s: %d %s", rcpt, resp.StatusCode, resp.Body)
			return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		}
	}
	return nil
}

func sendViaSMTP(to []string, subject, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Feedback System <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// HTML wrapper shared by every outgoing email
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.content h2 { color: #1F3A5F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3B82F6; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3B82F6; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>FEEDBACK SYSTEM</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				You are receiving this because you have a Feedback System account.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a freshly registered user.
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to the Feedback System"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been created successfully.</p>
		<p>You can now exchange feedback with your team and keep track of what you receive.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendNotificationEmail mirrors an in-app notification to the user's inbox.
func SendNotificationEmail(email, name, message, link string) error {
	subject := "You have a new notification"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>%s</p>
		<a href="%s" class="btn">View in Dashboard</a>
	`, name, message, link)

	return SendEmail([]string{email}, subject, getEmailTemplate("New Activity", body))
}

// SendReminderEmail nudges a user about stale pending items.
func SendReminderEmail(email, name, message, link string) error {
	subject := "Reminder from the Feedback System"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>%s</p>
		<div class="info-box">This is an automated reminder. No action is recorded until you respond in the dashboard.</div>
		<a href="%s" class="btn">Open Dashboard</a>
	`, name, message, link)

	return SendEmail([]string{email}, subject, getEmailTemplate("Pending Items", body))
}
