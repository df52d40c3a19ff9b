package admin

import (
	"context"
	"fmt"
	"html"

	"github.com/vesperhq/authkit/pkg/email"
)

// MailNotifier implements auth.Notifier over a transactional mail sender.
// The emailed links carry the bearer token the recipient presents back to
// the application boundary.
type MailNotifier struct {
	sender  email.Sender
	appName string
	baseURL string
}

// NewMailNotifier creates a notifier sending through the given sender.
func NewMailNotifier(sender email.Sender, appName, baseURL string) *MailNotifier {
	return &MailNotifier{sender: sender, appName: appName, baseURL: baseURL}
}

func (n *MailNotifier) SendInvitation(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s?token=%s", n.baseURL, token)
	body := fmt.Sprintf(
		`<p>Hello %s,</p>
<p>You have been invited to %s. Follow the link below to set your password and finish onboarding:</p>
<p><a href="%s">Accept invitation</a></p>`,
		html.EscapeString(to), html.EscapeString(n.appName), link,
	)

	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  fmt.Sprintf("Invitation to %s", n.appName),
		BodyHTML: body,
		Tag:      "invitation",
	})
}

func (n *MailNotifier) SendPasswordReset(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s?token=%s", n.baseURL, token)
	body := fmt.Sprintf(
		`<p>Hello %s,</p>
<p>A password reset was requested for your %s account. Follow the link below to choose a new password:</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request this, you can ignore this email.</p>`,
		html.EscapeString(to), html.EscapeString(n.appName), link,
	)

	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  "Password reset request",
		BodyHTML: body,
		Tag:      "password-reset",
	})
}
