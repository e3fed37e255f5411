// Package email delivers workflow notifications through Resend: moderation
// requests to the review channel and verification results to the profile
// owner.
package email

import (
	"bytes"
	"context"
	"html/template"
	"os"

	"github.com/resendlabs/resend-go"

	"github.com/lensfolio/lensfolio-backend/internal/models"
	"github.com/lensfolio/lensfolio-backend/pkg/logging"
)

type EmailService struct {
	client            *resend.Client
	from              string
	fromName          string
	moderationChannel string
	logger            logging.Logger
}

func NewEmailService(moderationChannel string, logger logging.Logger) *EmailService {
	return &EmailService{
		client:            resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:              os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName:          os.Getenv("EMAIL_FROM_NAME"),
		moderationChannel: moderationChannel,
		logger:            logger.With("component", "email"),
	}
}

// SendModerationRequest posts a snapshot of the submitted profile to the
// moderation channel. The subject user ID ties the mail back to the pending
// record; moderators act through the moderation API.
func (s *EmailService) SendModerationRequest(ctx context.Context, subject uint, username string, snapshot models.ProfileDraft) error {
	s.logger.Info(ctx, "sending moderation request", "subject", subject, "username", username)

	html, err := renderTemplate(moderationRequestTemplate, map[string]interface{}{
		"UserID":   subject,
		"Username": username,
		"Snapshot": snapshot,
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{s.moderationChannel},
		Subject: "Profile Verification Request",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error(ctx, "failed to send moderation request", "subject", subject, "error", err)
		return err
	}

	s.logger.Info(ctx, "moderation request sent", "subject", subject, "id", resp.Id)
	return nil
}

// SendProfileApproved tells the owner their profile is now visible.
func (s *EmailService) SendProfileApproved(ctx context.Context, to, displayName string) error {
	return s.sendResult(ctx, to, "Profile Approved", profileApprovedTemplate, displayName)
}

// SendProfileRejected tells the owner to revise and resubmit.
func (s *EmailService) SendProfileRejected(ctx context.Context, to, displayName string) error {
	return s.sendResult(ctx, to, "Profile Needs Revision", profileRejectedTemplate, displayName)
}

func (s *EmailService) sendResult(ctx context.Context, to, subject string, tmpl *template.Template, displayName string) error {
	s.logger.Info(ctx, "sending verification result", "to", to, "subject", subject)

	html, err := renderTemplate(tmpl, map[string]interface{}{
		"DisplayName": displayName,
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error(ctx, "failed to send verification result", "to", to, "error", err)
		return err
	}

	s.logger.Info(ctx, "verification result sent", "to", to, "id", resp.Id)
	return nil
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
