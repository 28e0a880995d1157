package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
)

// mailer delivers one plain-text message.
type mailer func(ctx context.Context, toEmail, toName, subject, body string) error

type emailService struct {
	send mailer
}

// NewEmailService sends through SendGrid. Without an API key messages are
// only logged, which keeps local and test deployments quiet.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, emails will be logged only")
		return &emailService{send: logMailer}
	}
	client := sendgrid.NewSendClient(apiKey)
	from := mail.NewEmail(fromName, fromEmail)
	return &emailService{send: func(ctx context.Context, toEmail, toName, subject, body string) error {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail(toName, toEmail), body, "")

		logger.ExternalServiceCall("sendgrid", "send", "to", toEmail)
		response, err := client.SendWithContext(ctx, message)
		if err == nil && response.StatusCode >= 400 {
			err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		}
		logger.ExternalServiceResult("sendgrid", "send", err)
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}}
}

func logMailer(ctx context.Context, toEmail, toName, subject, body string) error {
	logger.InfoContext(ctx, "Email (not sent)", "to", toEmail, "subject", subject, "body", body)
	return nil
}

func (s *emailService) SendRegistrationDecision(ctx context.Context, reg *domain.Registration) error {
	var subject, body string
	switch reg.Status {
	case domain.RegistrationStatusApproved:
		subject = "Your registration has been approved"
		body = fmt.Sprintf("Hello %s,\n\nYour registration has been approved. You can now log in with the username %s.", reg.Username, reg.Username)
	case domain.RegistrationStatusRejected:
		subject = "Your registration has been rejected"
		body = fmt.Sprintf("Hello %s,\n\nYour registration request has been rejected.", reg.Username)
	default:
		return fmt.Errorf("registration %s has no decision to announce", reg.ID)
	}
	if reg.Message != nil && *reg.Message != "" {
		body += fmt.Sprintf("\n\nMessage from the administrator: %s", *reg.Message)
	}
	body += "\n\nBest regards,\nThe Docs Team"

	return s.send(ctx, reg.Email, reg.Username, subject, body)
}

func (s *emailService) SendPendingRegistrationDigest(ctx context.Context, admin domain.User, pending int) error {
	subject := fmt.Sprintf("%d registration(s) awaiting approval", pending)
	body := fmt.Sprintf("Hello %s,\n\nThere are %d pending registration request(s) waiting for review.\n\nBest regards,\nThe Docs Team", admin.Username, pending)
	return s.send(ctx, admin.Email, admin.Username, subject, body)
}
