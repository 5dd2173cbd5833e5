package email

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
)

// ResetNotifier emails password reset links.
type ResetNotifier struct {
	sender   Sender
	linkBase string
	ttl      time.Duration
}

func NewResetNotifier(sender Sender, linkBase string, ttl time.Duration) *ResetNotifier {
	return &ResetNotifier{sender: sender, linkBase: linkBase, ttl: ttl}
}

func (n *ResetNotifier) SendResetEmail(ctx context.Context, user *domain.User, token string) error {
	link := n.linkBase + "/reset-password?token=" + url.QueryEscape(token)
	subject := "Reset your password"
	body := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>We received a request to reset your password. Use the link below to choose a new one (expires in %s):</p>`+
			`<p><a href="%s">%s</a></p>`+
			`<p>If you did not request a reset you can ignore this email.</p>`,
		html.EscapeString(user.FirstName), n.ttl, link, link,
	)
	if err := n.sender.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
