package notification

import (
	"context"
	"fmt"

	"slotbook/models"
	"slotbook/utils"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender delivers confirmations via the Resend API with the rendered
// invite attached as an ICS file.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender with the given API key and from address.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) SendConfirmation(ctx context.Context, confirmation models.Confirmation, invite []byte) error {
	logger := utils.GetLogger()
	subject, body := RenderEmail(confirmation)

	params := &resend.SendEmailRequest{
		From:        s.from,
		To:          []string{confirmation.GuestEmail},
		Subject:     subject,
		Text:        body,
		Attachments: []*resend.Attachment{inviteAttachment(confirmation, invite)},
	}
	if confirmation.MemberEmail != "" {
		params.ReplyTo = confirmation.MemberEmail
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	logger.Info("confirmation email sent",
		zap.String("messageID", sent.Id),
		zap.String("to", confirmation.GuestEmail),
		zap.String("reservationID", confirmation.UID))
	return nil
}

// inviteAttachment wraps the rendered invite as a calendar attachment. The
// Resend API takes attachment content as raw bytes.
func inviteAttachment(confirmation models.Confirmation, invite []byte) *resend.Attachment {
	return &resend.Attachment{
		Filename:    fmt.Sprintf("%s.ics", confirmation.UID),
		Content:     invite,
		ContentType: "text/calendar",
	}
}

// NoopSender logs deliveries without sending. Used in development and tests.
type NoopSender struct{}

func (NoopSender) SendConfirmation(_ context.Context, confirmation models.Confirmation, _ []byte) error {
	utils.GetLogger().Info("noop confirmation delivery",
		zap.String("to", confirmation.GuestEmail),
		zap.String("reservationID", confirmation.UID))
	return nil
}
